// internal/workers/directory/parse-search-criteria/config.go
package parsesearchcriteria

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultPageSize int
	MaxPageSize     int
	MaxRadiusKm     float64
	DefaultLanguage string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxRadiusKm:     100,
		DefaultLanguage: "en",
	}
}

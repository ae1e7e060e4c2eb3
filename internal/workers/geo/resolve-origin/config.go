// internal/workers/geo/resolve-origin/config.go
package resolveorigin

import "time"

type Config struct {
	Timeout  time.Duration
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  8 * time.Second,
		BaseURL:  "https://geocode.lusotown.com",
		CacheTTL: 24 * time.Hour,
	}
}

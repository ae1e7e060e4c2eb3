// internal/workers/infrastructure/build-search-response/config.go
package buildsearchresponse

import "time"

type Config struct {
	AppVersion string
	Timeout    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		AppVersion: "1.0.0",
		Timeout:    10 * time.Second,
	}
}

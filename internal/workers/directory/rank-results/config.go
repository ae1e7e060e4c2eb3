// internal/workers/directory/rank-results/config.go
package rankresults

import "time"

type Config struct {
	Timeout  time.Duration
	MaxItems int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  15 * time.Second,
		MaxItems: 100,
	}
}

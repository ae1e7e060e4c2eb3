// internal/workers/matching/calculate-compatibility/config.go
package calculatecompatibility

import "time"

type Config struct {
	Timeout       time.Duration
	CacheTTL      time.Duration
	MaxCandidates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       15 * time.Second,
		CacheTTL:      10 * time.Minute,
		MaxCandidates: 200,
	}
}

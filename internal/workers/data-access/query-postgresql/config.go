// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import "time"

type Config struct {
	Timeout time.Duration
	MaxRows int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		MaxRows: 500,
	}
}

// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		IndexName: "directory_businesses",
	}
}

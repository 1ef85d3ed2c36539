// internal/workers/connections/deduplicate-connections/config.go
package deduplicateconnections

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}

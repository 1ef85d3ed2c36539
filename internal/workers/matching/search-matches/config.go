// internal/workers/matching/search-matches/config.go
package searchmatches

import "time"

type Config struct {
	Index   string
	Timeout time.Duration
}

func LoadConfig(index string) *Config {
	return &Config{
		Index:   index,
		Timeout: 5 * time.Second,
	}
}

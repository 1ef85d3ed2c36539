// internal/workers/profiles/invalidate-profile-cache/config.go
package invalidateprofilecache

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
	}
}

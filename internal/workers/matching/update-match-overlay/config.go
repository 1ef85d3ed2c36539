// internal/workers/matching/update-match-overlay/config.go
package updatematchoverlay

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

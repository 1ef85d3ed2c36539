// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"sponsormatch-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection pool shared by the overlay store and the
// entity cache.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	io := config.GetDuration(cfg.IOTimeout)
	if io <= 0 {
		io = 3 * time.Second
	}
	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  io,
		WriteTimeout: io,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// internal/store/redis_kv.go
package store

import (
	"context"
	"errors"

	"sponsormatch-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the overlay key-value store. Keys never expire.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := kv.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrNotFound
	}
	return val, err
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.client.Set(ctx, key, value, 0).Err()
}

// internal/store/cached_entity_store.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// ProfileSource is the uncached profile store, normally *EntityStore.
type ProfileSource interface {
	GetBrandByID(ctx context.Context, id string) (*models.Brand, error)
	GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error)
	GetAllBrands(ctx context.Context) ([]models.Brand, error)
	GetAllOrganizers(ctx context.Context) ([]models.Organizer, error)
}

// CachedEntityStore reads single profiles through Redis. Cache failures are
// logged and fall back to the source. Full scans are never cached.
type CachedEntityStore struct {
	ProfileSource
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEntityStore(source ProfileSource, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedEntityStore {
	return &CachedEntityStore{ProfileSource: source, redis: rdb, ttl: ttl, logger: log}
}

func brandCacheKey(id string) string     { return "brand:profile:" + id }
func organizerCacheKey(id string) string { return "organizer:profile:" + id }

func (s *CachedEntityStore) GetBrandByID(ctx context.Context, id string) (*models.Brand, error) {
	var cached models.Brand
	if s.readCache(ctx, brandCacheKey(id), &cached) {
		return &cached, nil
	}

	brand, err := s.ProfileSource.GetBrandByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, brandCacheKey(id), brand)
	return brand, nil
}

func (s *CachedEntityStore) GetOrganizerByID(ctx context.Context, id string) (*models.Organizer, error) {
	var cached models.Organizer
	if s.readCache(ctx, organizerCacheKey(id), &cached) {
		return &cached, nil
	}

	organizer, err := s.ProfileSource.GetOrganizerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, organizerCacheKey(id), organizer)
	return organizer, nil
}

// Invalidate drops the cached profile so the next single lookup reads the
// source. It must run after every profile write, otherwise the triggering
// side of a generation run scores a stale copy while the counter-party scan
// sees the new row.
func (s *CachedEntityStore) Invalidate(ctx context.Context, entityType models.EntityType, id string) (bool, error) {
	var key string
	switch entityType {
	case models.EntityBrand:
		key = brandCacheKey(id)
	case models.EntityOrganizer:
		key = organizerCacheKey(id)
	default:
		return false, fmt.Errorf("invalidate profile: unknown entity type %q", entityType)
	}

	n, err := s.redis.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("invalidate %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *CachedEntityStore) readCache(ctx context.Context, key string, dest interface{}) bool {
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err})
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		s.logger.Warn("discarding unreadable cached profile", map[string]interface{}{"key": key, "error": err})
		return false
	}
	return true
}

func (s *CachedEntityStore) writeCache(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

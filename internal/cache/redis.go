package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/docrest/internal/errors"
)

// RedisCache is a Cache backed by Redis, for deployments where multiple
// instances must share credential lookups.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a cache on top of an existing Redis client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value, mapping redis.Nil to a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "failed to read cache key")
	}
	return value, true, nil
}

// Set stores a value with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to write cache key")
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete cache key")
	}
	return nil
}

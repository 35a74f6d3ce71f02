// Package cache provides the credential cache used by the authentication
// chain. Two backends exist: an in-process memory cache for single-node
// deployments and a Redis cache for shared deployments.
package cache

import (
	"context"
	"time"
)

// Cache stores small binary values under string keys with a TTL. A miss is
// reported through the boolean, not through an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

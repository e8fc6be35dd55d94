package repository

import (
	"context"
	"time"
)

// CacheRepository caches rendered GeoJSON features keyed by farm ID.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete invalidates a key, used when a boundary is replaced.
	Delete(ctx context.Context, key string) error
}

// Package cache stores short-lived byte values, such as moderation verdicts,
// in Redis or in process memory.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned when a key is not found in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for caching data.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given expiration. A zero ttl skips caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any resources used by the cache.
	Close() error
}

// Open returns a RedisCache when redisURL is set and reachable, and a
// MemoryCache otherwise.
func Open(ctx context.Context, redisURL string, logger zerolog.Logger) Cache {
	if redisURL == "" {
		return NewMemoryCache()
	}
	rc, err := NewRedisCache(ctx, redisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		return NewMemoryCache()
	}
	return rc
}

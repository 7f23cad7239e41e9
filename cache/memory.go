package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache with per-key TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

// Get returns the value for key, or ErrCacheMiss when absent or expired.
// Expired entries are removed under the write lock.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	if c.now().Before(e.expires) {
		return append([]byte(nil), e.value...), nil
	}

	c.mu.Lock()
	if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expires) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil, ErrCacheMiss
}

// Set stores a copy of value. A zero ttl skips caching.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = entry{value: append([]byte(nil), value...), expires: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate drops every entry.
func (c *MemoryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	c.Invalidate()
	return nil
}

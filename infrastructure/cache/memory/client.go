// ABOUTME: In-memory cache implementation backed by patrickmn/go-cache
// ABOUTME: Keeps fetched search responses for the life of the process with TTL support

package memory

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// MemoryCache implements the Cache interface using go-cache
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a cache whose entries default to defaultExpiration.
// Expired entries are purged every cleanupInterval.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	if defaultExpiration <= 0 {
		defaultExpiration = gocache.NoExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemoryCache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// Get retrieves a copy of a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	val, found := c.cache.Get(key)
	if !found {
		return nil, ErrCacheMiss
	}
	data, ok := val.([]byte)
	if !ok {
		return nil, ErrCacheMiss
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Set stores a copy of value. A zero ttl stores the value without expiry.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(value))
	copy(data, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, data, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.cache.Delete(key)
	return nil
}

// Count returns the number of cached entries, including ones not yet purged
func (c *MemoryCache) Count() int {
	return c.cache.ItemCount()
}

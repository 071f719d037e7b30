// ABOUTME: In-memory backing store built on go-cache for single-process deployments
// ABOUTME: Implements interfaces.Cache with per-entry TTL and periodic janitor cleanup

package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"v2ex-richview/core/interfaces"
)

// DefaultCleanupInterval is how often the janitor purges expired entries
const DefaultCleanupInterval = 5 * time.Minute

// MemoryCache implements the Cache interface using in-memory storage
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithCleanup(DefaultCleanupInterval)
}

// NewMemoryCacheWithCleanup creates a cache whose janitor runs at the given
// interval. A non-positive interval disables the janitor; expired entries are
// then only dropped on access.
func NewMemoryCacheWithCleanup(cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	stored, ok := value.([]byte)
	if !ok {
		return nil, interfaces.ErrNotFound
	}

	result := make([]byte, len(stored))
	copy(result, stored)
	return result, nil
}

// Set stores a value in the cache with the given TTL. A zero TTL never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	expiration := ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, expiration)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones the
// janitor has not purged yet
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Flush removes every entry
func (c *MemoryCache) Flush() {
	c.items.Flush()
}

// Sweep purges expired entries immediately
func (c *MemoryCache) Sweep() {
	c.items.DeleteExpired()
}

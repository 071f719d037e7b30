// Package interfaces defines the contracts the render pipeline depends on.
// Concrete implementations live in infrastructure and are injected, so each
// pipeline stage can be tested in isolation.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Cache.Get when the key is absent or expired.
// Any other error is a storage fault.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a byte-oriented key/value store used as the backing layer of the
// shared view cache tiers. Implementations can be Redis, SQLite, or in-memory.
//
// Example usage:
//
//	store := someCache // implements Cache interface
//
//	// Store rendered Markdown for a day
//	err := store.Set(ctx, "richview:md:1:ab12...", []byte(markdown), 24*time.Hour)
//
//	// Retrieve it
//	data, err := store.Get(ctx, "richview:md:1:ab12...")
//	if err != nil {
//		// cache miss or storage fault; either way recompute
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// ABOUTME: Opens the render cache backing store selected by configuration
// ABOUTME: Supports memory, redis, sqlite or no backing store at all

// Package cache selects and opens the backing store behind the shared
// render cache tiers.
package cache

import (
	"fmt"

	"v2ex-richview/core/interfaces"
	"v2ex-richview/infrastructure/cache/memory"
	"v2ex-richview/infrastructure/cache/redis"
	"v2ex-richview/infrastructure/cache/sqlite"
	"v2ex-richview/pkg/config"
)

// Backing is an opened backing store. Store is nil for the "none" backend.
type Backing struct {
	Name  string
	Store interfaces.Cache

	close func() error
}

// Close releases the store's connections
func (b *Backing) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// Open creates the backing store named by cfg.Backend
func Open(cfg config.CacheConfig, logger interfaces.Logger) (*Backing, error) {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}

	var backing *Backing
	switch cfg.Backend {
	case config.BackendNone:
		backing = &Backing{Name: cfg.Backend}
	case "", config.BackendMemory:
		backing = &Backing{Name: config.BackendMemory, Store: memory.NewMemoryCache()}
	case config.BackendRedis:
		store, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis backing store: %w", err)
		}
		backing = &Backing{Name: cfg.Backend, Store: store, close: store.Close}
	case config.BackendSQLite:
		store, err := sqlite.NewStore(sqlite.Config{Path: cfg.SQLite.Path}, interfaces.Dependencies{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open sqlite backing store: %w", err)
		}
		backing = &Backing{Name: cfg.Backend, Store: store, close: store.Close}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}

	logger.Info("Render cache backing store opened", map[string]interface{}{
		"backend": backing.Name,
	})
	return backing, nil
}

// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: backing stores for the render cache and the
// structured logger.
//
// The infrastructure package is organized by technical concern:
//
// - cache: Selects and opens a backing store from pkg/config
// - cache/memory: In-process store on go-cache
// - cache/redis: Shared store on go-redis
// - cache/sqlite: Persistent store on go-sqlite3
// - logger/structured: logrus logger with optional rotating file output
//
// # Cache Backends
//
//	backing, err := cache.Open(config.CacheConfig{
//	    Backend: config.BackendRedis,
//	    Redis:   config.RedisConfig{Address: "localhost:6379"},
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	defer backing.Close()
//
//	err = backing.Store.Set(ctx, "md:abc", payload, time.Hour)
//
// # Logger
//
//	logger, err := structured.New(config.LogConfig{Level: "info", Format: "json"})
//	logger.Info("Render completed", map[string]interface{}{
//	    "key":      key,
//	    "duration": elapsed,
//	})
package infrastructure

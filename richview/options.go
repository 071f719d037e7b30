// ABOUTME: Configuration options for the richview library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package richview

import (
	"time"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/workers"
	infracache "v2ex-richview/infrastructure/cache"
	"v2ex-richview/pkg/config"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// Config holds the configuration for the client
type Config struct {
	// Cache is an optional backing store for the Markdown and styled tiers
	Cache interfaces.Cache

	// Logger receives pipeline diagnostics
	Logger interfaces.Logger

	// Render is the configuration used by Render and RenderOrFallback
	Render domain.RenderConfiguration

	// WorkerConfig sizes the render worker pool
	WorkerConfig workers.WorkerConfig

	// BackingTTL bounds backing-store entries; zero keeps them indefinitely
	BackingTTL time.Duration

	// closers run on Client.Close for resources the options opened
	closers []func() error
}

// WithCache sets a custom backing store
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithCacheBackend opens the backing store described by cfg and closes it
// together with the client
func WithCacheBackend(cfg config.CacheConfig) Option {
	return func(c *Config) error {
		backing, err := infracache.Open(cfg, c.Logger)
		if err != nil {
			return NewError(ErrorTypeConfiguration, "cannot open cache backend").
				WithCause(err).
				WithContext("backend", cfg.Backend)
		}
		c.Cache = backing.Store
		c.BackingTTL = cfg.BackingTTLDuration()
		c.closers = append(c.closers, backing.Close)
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return WithLogger(QuietLogger())
}

// WithRenderConfiguration replaces the render configuration
func WithRenderConfiguration(cfg domain.RenderConfiguration) Option {
	return func(c *Config) error {
		if err := cfg.Validate(); err != nil {
			return NewError(ErrorTypeConfiguration, "invalid render configuration").WithCause(err)
		}
		c.Render = cfg
		return nil
	}
}

// WithProfile selects the default or compact configuration
func WithProfile(profile string) Option {
	return func(c *Config) error {
		switch profile {
		case config.ProfileDefault:
			c.Render = domain.DefaultConfiguration()
		case config.ProfileCompact:
			c.Render = domain.CompactConfiguration()
		default:
			return NewError(ErrorTypeConfiguration, "unknown profile").WithContext("profile", profile)
		}
		return nil
	}
}

// WithTagPolicy sets how unsupported tags are handled
func WithTagPolicy(policy domain.TagPolicy) Option {
	return func(c *Config) error {
		c.Render.TagPolicy = policy
		return nil
	}
}

// WithWorkerConfig sets the worker pool configuration
func WithWorkerConfig(cfg workers.WorkerConfig) Option {
	return func(c *Config) error {
		if cfg.MaxWorkers < 1 || cfg.QueueSize < 1 {
			return NewError(ErrorTypeConfiguration, "worker pool needs at least one worker and one queue slot").
				WithContext("workers", cfg.MaxWorkers).
				WithContext("queue", cfg.QueueSize)
		}
		c.WorkerConfig = cfg
		return nil
	}
}

// WithEnvConfig applies a loaded environment configuration: render profile,
// tag policy, base URL, worker sizing and cache backend
func WithEnvConfig(cfg *config.Config) Option {
	return func(c *Config) error {
		if err := cfg.Validate(); err != nil {
			return NewError(ErrorTypeConfiguration, "invalid environment configuration").WithCause(err)
		}
		render, err := cfg.Render.Configuration()
		if err != nil {
			return NewError(ErrorTypeConfiguration, "invalid render configuration").WithCause(err)
		}
		c.Render = render
		c.WorkerConfig.MaxWorkers = cfg.Render.Workers
		c.WorkerConfig.QueueSize = cfg.Render.QueueSize
		return WithCacheBackend(cfg.Cache)(c)
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Logger:       QuietLogger(),
		Render:       domain.DefaultConfiguration(),
		WorkerConfig: workers.DefaultWorkerConfig(),
	}
}

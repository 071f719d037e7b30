// ABOUTME: Configuration management for the render service with environment variable support
// ABOUTME: Defines configuration structures for rendering, cache backends, logging and the HTTP server

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"v2ex-richview/core/domain"
)

// Cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Render profiles
const (
	ProfileDefault = "default"
	ProfileCompact = "compact"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains backing store configuration for the render cache
	Cache CacheConfig

	// Render contains pipeline configuration
	Render RenderConfig

	// Log contains logger configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the number of requests allowed per client per window
	RateLimit int

	// RateWindow is the rate limit window in seconds
	RateWindow int
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Backend selects the backing store (memory/redis/sqlite/none)
	Backend string

	// BackingTTL is the lifetime of backing entries in seconds, 0 for none
	BackingTTL int

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// RenderConfig holds pipeline configuration
type RenderConfig struct {
	// Workers is the render worker pool size
	Workers int

	// QueueSize bounds the pending render queue
	QueueSize int

	// Profile selects the default or compact configuration
	Profile string

	// TagPolicy is strict or lenient
	TagPolicy string

	// BaseURL absolutizes relative links
	BaseURL string
}

// LogConfig holds logger configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string

	// Format is json or text
	Format string

	// File, when set, receives log output with size-based rotation
	File string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "8000"),
			RateLimit:  getEnvAsIntOrDefault("RATE_LIMIT", 120),
			RateWindow: getEnvAsIntOrDefault("RATE_WINDOW", 60),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(getEnvOrDefault("RICHVIEW_CACHE_BACKEND", BackendMemory)),
			BackingTTL: getEnvAsIntOrDefault("CACHE_BACKING_TTL", 86400),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "richview-cache.db"),
			},
		},
		Render: RenderConfig{
			Workers:   getEnvAsIntOrDefault("RENDER_WORKERS", 4),
			QueueSize: getEnvAsIntOrDefault("RENDER_QUEUE_SIZE", 100),
			Profile:   strings.ToLower(getEnvOrDefault("RICHVIEW_PROFILE", ProfileDefault)),
			TagPolicy: strings.ToLower(getEnvOrDefault("RICHVIEW_TAG_POLICY", "strict")),
			BaseURL:   getEnvOrDefault("FORUM_BASE_URL", domain.DefaultBaseURL),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}
	if c.Server.RateLimit < 1 {
		return errors.New("rate limit must be at least 1 request")
	}
	if c.Server.RateWindow < 1 {
		return errors.New("rate window must be at least 1 second")
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case BackendSQLite:
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return fmt.Errorf("cache backend must be one of memory, redis, sqlite, none; got %q", c.Cache.Backend)
	}
	if c.Cache.BackingTTL < 0 {
		return errors.New("cache backing TTL cannot be negative")
	}

	if c.Render.Workers < 1 {
		return errors.New("render workers must be at least 1")
	}
	if c.Render.QueueSize < 1 {
		return errors.New("render queue size must be at least 1")
	}
	if c.Render.Profile != ProfileDefault && c.Render.Profile != ProfileCompact {
		return fmt.Errorf("profile must be 'default' or 'compact'; got %q", c.Render.Profile)
	}
	if _, err := domain.ParseTagPolicy(c.Render.TagPolicy); err != nil {
		return err
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log format must be 'json' or 'text'; got %q", c.Log.Format)
	}
	return nil
}

// BackingTTLDuration returns the backing entry lifetime
func (c CacheConfig) BackingTTLDuration() time.Duration {
	return time.Duration(c.BackingTTL) * time.Second
}

// RateWindowDuration returns the rate limit window
func (c ServerConfig) RateWindowDuration() time.Duration {
	return time.Duration(c.RateWindow) * time.Second
}

// Configuration builds the render configuration for the selected profile
func (c RenderConfig) Configuration() (domain.RenderConfiguration, error) {
	cfg, err := ProfileConfiguration(c.Profile)
	if err != nil {
		return cfg, err
	}

	policy, err := domain.ParseTagPolicy(c.TagPolicy)
	if err != nil {
		return cfg, err
	}
	cfg.TagPolicy = policy
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	return cfg, cfg.Validate()
}

// ProfileConfiguration returns the bundle for a named profile. An empty
// name selects the default profile.
func ProfileConfiguration(profile string) (domain.RenderConfiguration, error) {
	switch strings.ToLower(profile) {
	case "", ProfileDefault:
		return domain.DefaultConfiguration(), nil
	case ProfileCompact:
		return domain.CompactConfiguration(), nil
	}
	return domain.DefaultConfiguration(), fmt.Errorf("unknown profile %q", profile)
}

// ApplyProfile swaps the stylesheet bundle of base for the named profile
// while keeping its tag policy, base URL and caching switch. An empty
// name returns base unchanged.
func ApplyProfile(base domain.RenderConfiguration, profile string) (domain.RenderConfiguration, error) {
	if profile == "" {
		return base, nil
	}
	cfg, err := ProfileConfiguration(profile)
	if err != nil {
		return base, err
	}
	cfg.TagPolicy = base.TagPolicy
	cfg.BaseURL = base.BaseURL
	cfg.EnableCaching = base.EnableCaching
	return cfg, nil
}

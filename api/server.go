// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging and rate limiting

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"v2ex-richview/api/middleware"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/pkg/featureflags"
)

const (
	// Title is the OpenAPI title
	Title = "V2EX Richview API"

	// Version is the OpenAPI and health-check version
	Version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger     interfaces.Logger
	RateLimit  int           // requests per window
	RateWindow time.Duration // rate limit window

	// Flags gates rate limiting; nil applies the limit whenever one is set
	Flags featureflags.Manager

	// AllowedOrigins for CORS, every origin when empty
	AllowedOrigins []string
}

// NewAPI creates a Huma API without logging or rate limiting
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS must run first so preflights are never rate limited
	router.Use(corsHandler(cfg.AllowedOrigins).Handler)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}

	if rateLimited(cfg) {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	config := huma.DefaultConfig(Title, Version)
	config.Info.Description = "Renders V2EX topic and reply HTML into Markdown and styled rich text"

	// OpenAPI spec is served at /openapi.json and /openapi.yaml,
	// interactive docs at /docs
	api := humachi.New(router, config)

	return api, router
}

func rateLimited(cfg APIConfig) bool {
	if cfg.RateLimit <= 0 || cfg.RateWindow <= 0 {
		return false
	}
	if cfg.Flags == nil {
		return true
	}
	return cfg.Flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled)
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Link", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Window", "Retry-After"},
		MaxAge:         300,
	})
}

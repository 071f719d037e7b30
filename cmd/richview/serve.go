// ABOUTME: serve subcommand runs the HTTP preview API
// ABOUTME: Wires the richview client into the Huma API and shuts down gracefully

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"v2ex-richview/api"
	"v2ex-richview/api/handlers"
	"v2ex-richview/pkg/featureflags"
)

const banner = `
         ___             _     _
 _ _ ___| _ \_  _____ __| |_  (_)_____ __ __
| '_|___|   / |/ / -_) V V / | | / -_) V  V /
|_|     |_|_\___/\___|\_/\_/  |_|_\___|\_/\_/
`

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP preview API",
		Long: `Start the HTTP preview API. The OpenAPI document is served at
/openapi.json and interactive docs at /docs.

Feature flags are read from FEATURE_<NAME> environment variables:
  FEATURE_STATS_ENABLED             expose GET /v1/stats
  FEATURE_CACHE_ADMIN_ENABLED       expose DELETE /v1/cache
  FEATURE_LENIENT_OVERRIDE_ENABLED  honor "lenient": true in requests
  FEATURE_RATE_LIMIT_ENABLED        per-client rate limiting (on unless set to false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}

	cmd.Flags().StringP("port", "p", "", "port to listen on (default from PORT, 8000)")
	cmd.Flags().Int("rate-limit", 0, "requests per client per window (default from RATE_LIMIT)")
	a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	a.v.BindPFlag("server.rate_limit", cmd.Flags().Lookup("rate-limit"))

	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	fmt.Fprint(cmd.ErrOrStderr(), banner)

	cfg := a.cfg
	logger := a.logger
	logger.Info("Starting richview API", map[string]interface{}{
		"port":          cfg.Server.Port,
		"cache_backend": cfg.Cache.Backend,
		"profile":       cfg.Render.Profile,
		"workers":       cfg.Render.Workers,
	})

	client, err := a.newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	flags := featureflags.NewEnvManager("")
	if _, set := os.LookupEnv("FEATURE_RATE_LIMIT_ENABLED"); !set {
		flags.SetEnabled(featureflags.RateLimitEnabled, true)
	}

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     logger,
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: cfg.Server.RateWindowDuration(),
		Flags:      flags,
	})
	handlers.NewRenderHandler(client, flags, logger).RegisterRoutes(humaAPI)
	handlers.NewAdminHandler(client, flags, logger, api.Version, cfg.Cache.Backend).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	logger.Info("Server stopped", map[string]interface{}{
		"stats": client.Stats(),
	})
	return nil
}

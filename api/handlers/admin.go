// ABOUTME: Operational handlers for the Huma API
// ABOUTME: Health check, pipeline statistics and cache clearing behind feature flags

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"v2ex-richview/api/dto/responses"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/pipeline"
	"v2ex-richview/pkg/featureflags"
)

// AdminService is the part of richview.Client the admin handlers need
type AdminService interface {
	Stats() pipeline.Stats
	ClearCache()
}

// AdminHandler serves health, stats and cache administration
type AdminHandler struct {
	service AdminService
	flags   featureflags.Manager
	logger  interfaces.Logger
	version string
	backend string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service AdminService, flags featureflags.Manager, logger interfaces.Logger, version, backend string) *AdminHandler {
	if flags == nil {
		flags = featureflags.NewStaticManager(nil)
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &AdminHandler{
		service: service,
		flags:   flags,
		logger:  logger,
		version: version,
		backend: backend,
	}
}

// RegisterRoutes registers the operational routes
func (h *AdminHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Operations"},
	}, h.Health)

	huma.Register(api, huma.Operation{
		OperationID: "stats",
		Method:      http.MethodGet,
		Path:        "/v1/stats",
		Summary:     "Pipeline, cache and worker statistics",
		Description: "Requires the stats flag",
		Tags:        []string{"Operations"},
	}, h.Stats)

	huma.Register(api, huma.Operation{
		OperationID:   "clearCache",
		Method:        http.MethodDelete,
		Path:          "/v1/cache",
		Summary:       "Clear every render cache tier",
		Description:   "Requires the cache admin flag",
		Tags:          []string{"Operations"},
		DefaultStatus: http.StatusNoContent,
	}, h.ClearCache)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles the GET /health endpoint
func (h *AdminHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: responses.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Backend: h.backend,
	}}, nil
}

// StatsOutput defines the output for the Stats operation
type StatsOutput struct {
	Body pipeline.Stats
}

// Stats handles the GET /v1/stats endpoint
func (h *AdminHandler) Stats(ctx context.Context, input *struct{}) (*StatsOutput, error) {
	if !h.flags.IsEnabled(ctx, featureflags.StatsEnabled) {
		return nil, huma.Error404NotFound("statistics are disabled")
	}
	return &StatsOutput{Body: h.service.Stats()}, nil
}

// ClearCache handles the DELETE /v1/cache endpoint
func (h *AdminHandler) ClearCache(ctx context.Context, input *struct{}) (*struct{}, error) {
	if !h.flags.IsEnabled(ctx, featureflags.CacheAdminEnabled) {
		return nil, huma.Error403Forbidden("cache administration is disabled")
	}
	h.service.ClearCache()
	h.logger.Info("Render cache cleared", nil)
	return nil, nil
}

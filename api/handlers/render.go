// ABOUTME: Render handlers for the Huma API
// ABOUTME: Exposes the HTML to Markdown to styled text pipeline over HTTP

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"v2ex-richview/api/dto/mappers"
	"v2ex-richview/api/dto/requests"
	"v2ex-richview/api/dto/responses"
	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/pkg/config"
	"v2ex-richview/pkg/featureflags"
)

// RenderService is the part of richview.Client the handlers need
type RenderService interface {
	Configuration() domain.RenderConfiguration
	RenderWith(ctx context.Context, html string, cfg domain.RenderConfiguration) (*domain.RenderResult, error)
	DetectLanguage(code string) (string, bool)
	FindMentions(text string) []domain.Mention
}

// RenderHandler handles render-related HTTP requests
type RenderHandler struct {
	service RenderService
	flags   featureflags.Manager
	logger  interfaces.Logger
}

// NewRenderHandler creates a new render handler. A nil flag manager
// disables every flag.
func NewRenderHandler(service RenderService, flags featureflags.Manager, logger interfaces.Logger) *RenderHandler {
	if flags == nil {
		flags = featureflags.NewStaticManager(nil)
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &RenderHandler{service: service, flags: flags, logger: logger}
}

// RegisterRoutes registers all render-related routes
func (h *RenderHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "render",
		Method:      http.MethodPost,
		Path:        "/v1/render",
		Summary:     "Render an HTML fragment",
		Description: "Converts a topic or reply body to Markdown and styled text, with extracted elements when images are enabled",
		Tags:        []string{"Render"},
	}, h.Render)

	huma.Register(api, huma.Operation{
		OperationID: "renderMarkdown",
		Method:      http.MethodPost,
		Path:        "/v1/markdown",
		Summary:     "Convert an HTML fragment to Markdown",
		Tags:        []string{"Render"},
	}, h.Markdown)

	huma.Register(api, huma.Operation{
		OperationID: "extractElements",
		Method:      http.MethodPost,
		Path:        "/v1/elements",
		Summary:     "Extract content elements",
		Description: "Returns the block structure of an HTML fragment; images are always enabled",
		Tags:        []string{"Render"},
	}, h.Elements)

	huma.Register(api, huma.Operation{
		OperationID: "detectLanguage",
		Method:      http.MethodPost,
		Path:        "/v1/detect",
		Summary:     "Guess the language of a code snippet",
		Tags:        []string{"Analysis"},
	}, h.Detect)

	huma.Register(api, huma.Operation{
		OperationID: "findMentions",
		Method:      http.MethodPost,
		Path:        "/v1/mentions",
		Summary:     "Find @username mentions in plain text",
		Tags:        []string{"Analysis"},
	}, h.Mentions)
}

// RenderInput defines the input shared by the render operations
type RenderInput struct {
	Body requests.RenderRequest `json:"body"`
}

// RenderOutput defines the output for the Render operation
type RenderOutput struct {
	Body responses.RenderResponse
}

// Render handles the POST /v1/render endpoint
func (h *RenderHandler) Render(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	result, err := h.render(ctx, &input.Body, nil)
	if err != nil {
		return nil, err
	}
	return &RenderOutput{Body: *mappers.ToRenderResponse(result)}, nil
}

// MarkdownOutput defines the output for the Markdown operation
type MarkdownOutput struct {
	Body responses.MarkdownResponse
}

// Markdown handles the POST /v1/markdown endpoint
func (h *RenderHandler) Markdown(ctx context.Context, input *RenderInput) (*MarkdownOutput, error) {
	result, err := h.render(ctx, &input.Body, nil)
	if err != nil {
		return nil, err
	}
	return &MarkdownOutput{Body: *mappers.ToMarkdownResponse(result)}, nil
}

// ElementsOutput defines the output for the Elements operation
type ElementsOutput struct {
	Body responses.ElementsResponse
}

// Elements handles the POST /v1/elements endpoint
func (h *RenderHandler) Elements(ctx context.Context, input *RenderInput) (*ElementsOutput, error) {
	result, err := h.render(ctx, &input.Body, func(cfg *domain.RenderConfiguration) {
		cfg.EnableImages = true
	})
	if err != nil {
		return nil, err
	}
	return &ElementsOutput{Body: *mappers.ToElementsResponse(result)}, nil
}

// DetectInput defines the input for the Detect operation
type DetectInput struct {
	Body requests.DetectRequest `json:"body"`
}

// DetectOutput defines the output for the Detect operation
type DetectOutput struct {
	Body responses.DetectResponse
}

// Detect handles the POST /v1/detect endpoint
func (h *RenderHandler) Detect(ctx context.Context, input *DetectInput) (*DetectOutput, error) {
	tag, ok := h.service.DetectLanguage(input.Body.Code)
	return &DetectOutput{Body: *mappers.ToDetectResponse(tag, ok)}, nil
}

// MentionsInput defines the input for the Mentions operation
type MentionsInput struct {
	Body requests.MentionsRequest `json:"body"`
}

// MentionsOutput defines the output for the Mentions operation
type MentionsOutput struct {
	Body responses.MentionsResponse
}

// Mentions handles the POST /v1/mentions endpoint
func (h *RenderHandler) Mentions(ctx context.Context, input *MentionsInput) (*MentionsOutput, error) {
	return &MentionsOutput{Body: *mappers.ToMentionsResponse(h.service.FindMentions(input.Body.Text))}, nil
}

func (h *RenderHandler) render(ctx context.Context, req *requests.RenderRequest, adjust func(*domain.RenderConfiguration)) (*domain.RenderResult, error) {
	cfg, err := h.configurationFor(ctx, req)
	if err != nil {
		return nil, err
	}
	if adjust != nil {
		adjust(&cfg)
	}

	result, err := h.service.RenderWith(ctx, req.HTML, cfg)
	if err != nil {
		h.logger.Warn("Render request failed", map[string]interface{}{
			"profile": req.Profile,
			"lenient": req.Lenient,
			"error":   err.Error(),
		})
		return nil, toHumaError(err)
	}
	return result, nil
}

// configurationFor applies the request overrides to the server
// configuration
func (h *RenderHandler) configurationFor(ctx context.Context, req *requests.RenderRequest) (domain.RenderConfiguration, error) {
	cfg, err := config.ApplyProfile(h.service.Configuration(), req.Profile)
	if err != nil {
		return cfg, huma.Error400BadRequest(err.Error())
	}

	if req.Lenient {
		if !h.flags.IsEnabled(ctx, featureflags.LenientOverrideEnabled) {
			return cfg, huma.Error403Forbidden("lenient tag policy override is disabled")
		}
		cfg.TagPolicy = domain.TagPolicyLenient
	}
	if req.Images != nil {
		cfg.EnableImages = *req.Images
	}
	if req.Highlight != nil {
		cfg.EnableCodeHighlighting = *req.Highlight
	}
	return cfg, nil
}

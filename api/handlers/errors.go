// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts render pipeline errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"github.com/danielgtaylor/huma/v2"

	"v2ex-richview/core/errors"
	"v2ex-richview/richview"
)

// toHumaError converts pipeline errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	// Markup the pipeline refuses is the caller's problem
	switch {
	case errors.IsUnsupportedTag(err), errors.IsInvalidHTML(err), errors.IsMarkdownParsing(err):
		return huma.Error422UnprocessableEntity(err.Error(), err)
	case richview.IsConfigurationError(err), richview.IsValidationError(err):
		return huma.Error400BadRequest(err.Error(), err)
	case stderrors.Is(err, richview.ErrClientClosed):
		return huma.Error503ServiceUnavailable("Render pipeline is shutting down")
	case stderrors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("Render timed out")
	}

	return huma.Error500InternalServerError("Internal server error", err)
}

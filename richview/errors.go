// ABOUTME: Error types and handling for the richview library
// ABOUTME: Provides structured errors with context for library operations

package richview

import (
	stderrors "errors"
	"fmt"

	"v2ex-richview/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid caller input
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration ErrorType = "configuration"

	// ErrorTypeRendering indicates a pipeline failure; Cause is a RenderError
	ErrorTypeRendering ErrorType = "rendering"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error from the library
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ErrClientClosed is returned when operations are attempted on a closed client
var ErrClientClosed = NewError(ErrorTypeInternal, "client is closed")

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration)
}

// IsRenderingError checks if an error is a pipeline failure
func IsRenderingError(err error) bool {
	return hasType(err, ErrorTypeRendering)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

func hasType(err error, t ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// renderingError wraps a pipeline error, keeping its RenderError kind in
// the context so callers can branch without unwrapping
func renderingError(err error) *Error {
	e := NewError(ErrorTypeRendering, "render failed").WithCause(err)
	if kind := errors.KindOf(err); kind != "" {
		e.WithContext("kind", string(kind))
	}
	return e
}

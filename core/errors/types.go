// ABOUTME: Render error taxonomy for the rich-content pipeline
// ABOUTME: Provides structured errors so callers can choose a fallback presentation

package errors

import (
	"errors"
	"fmt"
)

// ErrorKind identifies one of the render error variants
type ErrorKind string

const (
	KindUnsupportedTag        ErrorKind = "unsupported_tag"
	KindInvalidHTML           ErrorKind = "invalid_html"
	KindMarkdownParsingFailed ErrorKind = "markdown_parsing_failed"
	KindRenderingFailed       ErrorKind = "rendering_failed"
	KindCacheError            ErrorKind = "cache_error"
)

// RenderError is implemented by every error the pipeline produces
type RenderError interface {
	error
	Kind() ErrorKind
}

// UnsupportedTagError is returned when HTML contains a tag outside the allow-list
type UnsupportedTagError struct {
	Tag string

	// Context is the start of the offending element's serialized HTML
	Context string
}

// Error implements the error interface
func (e *UnsupportedTagError) Error() string {
	return fmt.Sprintf("unsupported tag <%s> in %q", e.Tag, e.Context)
}

// Kind implements RenderError
func (e *UnsupportedTagError) Kind() ErrorKind { return KindUnsupportedTag }

// InvalidHTMLError is returned when a fragment cannot be parsed into a tree
type InvalidHTMLError struct {
	Reason string
}

// Error implements the error interface
func (e *InvalidHTMLError) Error() string {
	return fmt.Sprintf("invalid HTML: %s", e.Reason)
}

// Kind implements RenderError
func (e *InvalidHTMLError) Kind() ErrorKind { return KindInvalidHTML }

// MarkdownParsingError is returned when Markdown cannot be tokenized
type MarkdownParsingError struct {
	Reason string
}

// Error implements the error interface
func (e *MarkdownParsingError) Error() string {
	return fmt.Sprintf("markdown parsing failed: %s", e.Reason)
}

// Kind implements RenderError
func (e *MarkdownParsingError) Kind() ErrorKind { return KindMarkdownParsingFailed }

// RenderingError is returned when styled text cannot be produced
type RenderingError struct {
	Reason string
	Cause  error
}

// Error implements the error interface
func (e *RenderingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("rendering failed: %s", e.Reason)
}

// Kind implements RenderError
func (e *RenderingError) Kind() ErrorKind { return KindRenderingFailed }

// Unwrap returns the underlying cause
func (e *RenderingError) Unwrap() error { return e.Cause }

// CacheError describes a storage fault. The pipeline treats it as a miss.
type CacheError struct {
	Reason string
	Cause  error
}

// Error implements the error interface
func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Reason)
}

// Kind implements RenderError
func (e *CacheError) Kind() ErrorKind { return KindCacheError }

// Unwrap returns the underlying cause
func (e *CacheError) Unwrap() error { return e.Cause }

// IsUnsupportedTag checks if an error is an UnsupportedTagError
func IsUnsupportedTag(err error) bool {
	var target *UnsupportedTagError
	return errors.As(err, &target)
}

// IsInvalidHTML checks if an error is an InvalidHTMLError
func IsInvalidHTML(err error) bool {
	var target *InvalidHTMLError
	return errors.As(err, &target)
}

// IsMarkdownParsing checks if an error is a MarkdownParsingError
func IsMarkdownParsing(err error) bool {
	var target *MarkdownParsingError
	return errors.As(err, &target)
}

// IsRendering checks if an error is a RenderingError
func IsRendering(err error) bool {
	var target *RenderingError
	return errors.As(err, &target)
}

// IsCacheError checks if an error is a CacheError
func IsCacheError(err error) bool {
	var target *CacheError
	return errors.As(err, &target)
}

// IsRenderError checks if an error is any of the render error variants
func IsRenderError(err error) bool {
	var target RenderError
	return errors.As(err, &target)
}

// KindOf returns the kind of a render error, or "" for other errors
func KindOf(err error) ErrorKind {
	var target RenderError
	if errors.As(err, &target) {
		return target.Kind()
	}
	return ""
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

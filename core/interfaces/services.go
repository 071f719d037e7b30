// ABOUTME: Stage interfaces for the render pipeline
// ABOUTME: Defines contracts for the converter, extractor and renderer stages

package interfaces

import (
	"v2ex-richview/core/domain"
)

// ConvertOptions are the configuration switches that change converter output
type ConvertOptions struct {
	Policy  domain.TagPolicy
	BaseURL string

	// Escalate marks unsupported tags as coverage violations in the logs
	Escalate bool
}

// MarkdownConverter turns an HTML fragment into canonical Markdown
type MarkdownConverter interface {
	Convert(html string, opts ConvertOptions) (string, error)
}

// ElementExtractor turns an HTML fragment into structured content blocks
type ElementExtractor interface {
	Extract(html string, opts ConvertOptions) ([]domain.ContentElement, error)
}

// RenderOptions are the configuration switches that change renderer output
type RenderOptions struct {
	EnableImages           bool
	EnableCodeHighlighting bool
}

// MarkdownRenderer turns Markdown into styled text
type MarkdownRenderer interface {
	Render(markdown string, stylesheet domain.Stylesheet, opts RenderOptions) (domain.StyledText, error)
}

// LanguageDetector guesses the programming language of a code snippet
type LanguageDetector interface {
	Detect(code string) (string, bool)
}

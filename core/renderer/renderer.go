// ABOUTME: Markdown renderer produces StyledText from canonical Markdown
// ABOUTME: Walks the goldmark AST applying the stylesheet, then overlays mentions

// Package renderer converts Markdown into the native styled-text model.
// Parsing is CommonMark plus GFM (tables, strikethrough, linkify); a small
// set of literal inline tags (<u>, <ins>, <sup>, <sub>, <del>, <s>) is
// rendered as attributes instead of text.
package renderer

import (
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/mention"
)

// Renderer implements interfaces.MarkdownRenderer. The goldmark parser is
// configured once and shared; every call builds its own walk state.
type Renderer struct {
	markdown goldmark.Markdown
	mentions *mention.Parser
	logger   interfaces.Logger
}

// NewRenderer creates a renderer
func NewRenderer(deps interfaces.Dependencies) *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		mentions: mention.NewParser(),
		logger:   deps.LoggerOrNop(),
	}
}

// Render converts markdown into styled text using stylesheet
func (r *Renderer) Render(markdown string, stylesheet domain.Stylesheet, opts interfaces.RenderOptions) (domain.StyledText, error) {
	if !utf8.ValidString(markdown) {
		return domain.StyledText{}, &errors.MarkdownParsingError{Reason: "input is not valid UTF-8"}
	}

	source := []byte(markdown)
	document := r.markdown.Parser().Parse(text.NewReader(source))

	b := newBuilder(source, stylesheet, opts)
	if err := ast.Walk(document, b.walk); err != nil {
		r.logger.Debug("Markdown walk aborted", map[string]interface{}{
			"error":  err.Error(),
			"length": len(markdown),
		})
		return domain.StyledText{}, &errors.RenderingError{Reason: "walk markdown tree", Cause: err}
	}

	return overlayMentions(b.result(), r.mentions, stylesheet.Mention), nil
}

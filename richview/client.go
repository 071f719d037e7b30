// ABOUTME: Main client for the richview library turning V2EX HTML into native rich text
// ABOUTME: Offers a clean API over the render pipeline without HTTP dependencies

// Package richview is the public entry point of the rendering pipeline.
//
//	client, err := richview.NewClient(richview.WithProfile("compact"))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	result, err := client.Render(ctx, replyHTML)
package richview

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/language"
	"v2ex-richview/core/mention"
	"v2ex-richview/core/pipeline"
	"v2ex-richview/core/viewcache"
	htmlutil "v2ex-richview/pkg/utils/html"
)

// Client is the main entry point for the richview library
type Client struct {
	actor    *pipeline.RenderActor
	detector *language.Detector
	mentions *mention.Parser
	logger   interfaces.Logger
	config   Config
	closed   atomic.Bool
}

// NewClient creates a new client with the given options
func NewClient(options ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			runClosers(cfg.closers)
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = QuietLogger()
	}

	deps := interfaces.Dependencies{
		Cache:  cfg.Cache,
		Logger: cfg.Logger,
	}
	cache := viewcache.New(deps, viewcache.Config{BackingTTL: cfg.BackingTTL})

	actor, err := pipeline.NewRenderActor(deps, cache, pipeline.WithWorkerConfig(cfg.WorkerConfig))
	if err != nil {
		runClosers(cfg.closers)
		return nil, NewError(ErrorTypeConfiguration, "cannot start render pipeline").WithCause(err)
	}

	return &Client{
		actor:    actor,
		detector: language.NewDetector(),
		mentions: mention.NewParser(),
		logger:   cfg.Logger,
		config:   cfg,
	}, nil
}

// Close stops the pipeline and releases the backing store
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := c.actor.Close()
	if cerr := runClosers(c.config.closers); err == nil {
		err = cerr
	}
	return err
}

// Configuration returns the render configuration used by Render
func (c *Client) Configuration() domain.RenderConfiguration {
	return c.config.Render
}

// Render renders html with the client's configuration
func (c *Client) Render(ctx context.Context, html string) (*domain.RenderResult, error) {
	return c.RenderWith(ctx, html, c.config.Render)
}

// RenderWith renders html with an explicit configuration
func (c *Client) RenderWith(ctx context.Context, html string, cfg domain.RenderConfiguration) (*domain.RenderResult, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewError(ErrorTypeConfiguration, "invalid render configuration").WithCause(err)
	}

	result, err := c.actor.Render(ctx, html, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stderrors.Is(err, pipeline.ErrClosed) {
			return nil, ErrClientClosed
		}
		return nil, renderingError(err)
	}
	return result, nil
}

// RenderOrFallback renders html and, when the pipeline fails, returns a
// plain-text result built from the stripped markup together with the
// error. The result is never nil.
func (c *Client) RenderOrFallback(ctx context.Context, html string) (*domain.RenderResult, error) {
	result, err := c.Render(ctx, html)
	if err == nil {
		return result, nil
	}

	c.logger.Warn("Falling back to plain text", map[string]interface{}{
		"error": err.Error(),
	})
	return FallbackResult(html, c.config.Render.Stylesheet), err
}

// DetectLanguage guesses the programming language of a code snippet
func (c *Client) DetectLanguage(code string) (string, bool) {
	return c.detector.Detect(code)
}

// FindMentions returns every @username mention in plain text
func (c *Client) FindMentions(text string) []domain.Mention {
	return c.mentions.FindMentions(text)
}

// Stats returns pipeline, cache and worker statistics
func (c *Client) Stats() pipeline.Stats {
	return c.actor.Stats()
}

// ClearCache empties every cache tier and resets the counters
func (c *Client) ClearCache() {
	c.actor.Cache().ClearAll()
}

// MemoryPressure releases cached renders
func (c *Client) MemoryPressure() {
	c.actor.Cache().MemoryPressure()
}

// FallbackResult wraps the plain text of html in body-styled spans, one
// paragraph per line
func FallbackResult(html string, sheet domain.Stylesheet) *domain.RenderResult {
	text := htmlutil.StripHTML(html)
	attrs := domain.SpanAttributes{
		FontSize:   sheet.Body.FontSize,
		FontWeight: sheet.Body.FontWeight,
		Foreground: sheet.Body.Color,
		Block:      domain.BlockParagraph,
	}

	var spans []domain.Span
	if text != "" {
		spans = []domain.Span{{Text: text, Attributes: attrs}}
	}
	return &domain.RenderResult{
		Markdown:   strings.ReplaceAll(text, "\n", "\n\n"),
		StyledText: domain.StyledText{Spans: spans},
	}
}

func runClosers(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ABOUTME: RenderActor is the single entry point of the render pipeline
// ABOUTME: Deduplicates concurrent identical requests and stages cache writes until success

// Package pipeline composes the converter, renderer and view cache behind
// one call. Concurrent requests for the same (html, configuration) pair
// share a single execution; every caller receives its own copy of the
// result or the shared error.
package pipeline

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"v2ex-richview/core/converter"
	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/renderer"
	"v2ex-richview/core/viewcache"
	"v2ex-richview/core/workers"
)

// ErrClosed is returned by Render after Close
var ErrClosed = stderrors.New("render actor is closed")

// RenderActor owns the in-flight table. Everything it calls is either
// pure or internally synchronized.
type RenderActor struct {
	converter interfaces.MarkdownConverter
	extractor interfaces.ElementExtractor
	renderer  interfaces.MarkdownRenderer
	cache     *viewcache.Cache
	pool      *workers.RenderWorker
	logger    interfaces.Logger

	group        singleflight.Group
	workerConfig workers.WorkerConfig

	requests   atomic.Uint64
	executions atomic.Uint64
	failures   atomic.Uint64

	closed    atomic.Bool
	closeOnce sync.Once
}

// Option customizes a RenderActor
type Option func(*RenderActor)

// WithConverter replaces the HTML to Markdown stage
func WithConverter(c interfaces.MarkdownConverter) Option {
	return func(a *RenderActor) { a.converter = c }
}

// WithExtractor replaces the element extraction stage
func WithExtractor(e interfaces.ElementExtractor) Option {
	return func(a *RenderActor) { a.extractor = e }
}

// WithRenderer replaces the Markdown to styled text stage
func WithRenderer(r interfaces.MarkdownRenderer) Option {
	return func(a *RenderActor) { a.renderer = r }
}

// WithWorkerConfig sizes the worker pool
func WithWorkerConfig(cfg workers.WorkerConfig) Option {
	return func(a *RenderActor) { a.workerConfig = cfg }
}

// Stats is a diagnostic snapshot of the actor
type Stats struct {
	Requests   uint64               `json:"requests"`
	Executions uint64               `json:"executions"`
	Failures   uint64               `json:"failures"`
	Cache      viewcache.Statistics `json:"cache"`
	Workers    workers.WorkerStats  `json:"workers"`
}

// NewRenderActor creates and starts an actor. A nil cache gets a private
// in-memory one.
func NewRenderActor(deps interfaces.Dependencies, cache *viewcache.Cache, opts ...Option) (*RenderActor, error) {
	a := &RenderActor{
		cache:        cache,
		logger:       deps.LoggerOrNop(),
		workerConfig: workers.DefaultWorkerConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.converter == nil || a.extractor == nil {
		c := converter.NewConverter(deps, nil)
		if a.converter == nil {
			a.converter = c
		}
		if a.extractor == nil {
			a.extractor = c
		}
	}
	if a.renderer == nil {
		a.renderer = renderer.NewRenderer(deps)
	}
	if a.cache == nil {
		a.cache = viewcache.New(deps, viewcache.Config{})
	}

	a.pool = workers.NewRenderWorker(deps, a.workerConfig)
	if err := a.pool.Start(); err != nil {
		return nil, err
	}
	return a, nil
}

// RequestKey identifies an (html, configuration) pair
func RequestKey(html string, cfg domain.RenderConfiguration) string {
	return viewcache.ContentHash(html) + ":" + viewcache.Fingerprint(cfg)
}

// Render runs the pipeline for html under cfg. If the same pair is
// already in flight the call waits for that execution instead of
// starting another. Cancelling ctx abandons the wait only; the shared
// execution always completes for the remaining callers.
func (a *RenderActor) Render(ctx context.Context, html string, cfg domain.RenderConfiguration) (*domain.RenderResult, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, "invalid render configuration")
	}
	a.requests.Add(1)

	key := RequestKey(html, cfg)
	ch := a.group.DoChan(key, func() (interface{}, error) {
		var result *domain.RenderResult
		err := a.pool.Do(context.Background(), key, func(jobCtx context.Context) error {
			var runErr error
			result, runErr = a.run(jobCtx, key, html, cfg)
			return runErr
		})
		if err != nil {
			if !errors.IsRenderError(err) {
				err = &errors.RenderingError{Reason: "schedule render", Cause: err}
			}
			return nil, err
		}
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyResult(res.Val.(*domain.RenderResult)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run executes the stages in order. Cache writes are staged and applied
// only after every stage succeeded.
func (a *RenderActor) run(ctx context.Context, key, html string, cfg domain.RenderConfiguration) (*domain.RenderResult, error) {
	a.executions.Add(1)

	convertOpts := interfaces.ConvertOptions{
		Policy:   cfg.EffectivePolicy(),
		BaseURL:  cfg.EffectiveBaseURL(),
		Escalate: cfg.CrashOnUnsupportedTags,
	}
	renderOpts := interfaces.RenderOptions{
		EnableImages:           cfg.EnableImages,
		EnableCodeHighlighting: cfg.EnableCodeHighlighting,
	}
	caching := cfg.EnableCaching
	var staged []func()

	mdKey := viewcache.MarkdownKey(html, convertOpts)
	markdown, hit := "", false
	if caching {
		markdown, hit = a.cache.GetMarkdown(ctx, mdKey)
	}
	if !hit {
		var err error
		markdown, err = a.converter.Convert(html, convertOpts)
		if err != nil {
			return nil, a.fail(key, "convert", err)
		}
		if caching {
			staged = append(staged, func() { a.cache.SetMarkdown(ctx, mdKey, markdown) })
		}
	}

	stKey := viewcache.StyledKey(markdown, cfg.Stylesheet, renderOpts)
	var styled domain.StyledText
	hit = false
	if caching {
		styled, hit = a.cache.GetStyled(ctx, stKey)
	}
	if !hit {
		var err error
		styled, err = a.renderer.Render(markdown, cfg.Stylesheet, renderOpts)
		if err != nil {
			return nil, a.fail(key, "render", err)
		}
		if caching {
			staged = append(staged, func() { a.cache.SetStyled(ctx, stKey, styled) })
		}
	}

	var elements []domain.ContentElement
	if cfg.EnableImages {
		elKey := viewcache.ElementsKey(html, convertOpts)
		hit = false
		if caching {
			elements, hit = a.cache.GetElements(elKey)
		}
		if !hit {
			var err error
			elements, err = a.extractor.Extract(html, convertOpts)
			if err != nil {
				return nil, a.fail(key, "extract", err)
			}
			if caching {
				staged = append(staged, func() { a.cache.SetElements(elKey, elements) })
			}
		}
	}

	for _, commit := range staged {
		commit()
	}

	return &domain.RenderResult{
		Key:        key,
		Markdown:   markdown,
		StyledText: styled,
		Elements:   elements,
	}, nil
}

// fail logs a stage failure and makes sure callers always see a
// RenderError
func (a *RenderActor) fail(key, stage string, err error) error {
	a.failures.Add(1)
	if !errors.IsRenderError(err) {
		err = &errors.RenderingError{Reason: stage, Cause: err}
	}
	a.logger.Error("Render pipeline failed", map[string]interface{}{
		"key":   key,
		"stage": stage,
		"kind":  string(errors.KindOf(err)),
		"error": err.Error(),
	})
	return err
}

// Cache exposes the view cache for statistics and clearing
func (a *RenderActor) Cache() *viewcache.Cache {
	return a.cache
}

// Stats returns a diagnostic snapshot
func (a *RenderActor) Stats() Stats {
	return Stats{
		Requests:   a.requests.Load(),
		Executions: a.executions.Load(),
		Failures:   a.failures.Load(),
		Cache:      a.cache.Statistics(),
		Workers:    a.pool.Stats(),
	}
}

// Close stops the worker pool after the queued renders finish
func (a *RenderActor) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.closed.Store(true)
		err = a.pool.Stop()
	})
	return err
}

func copyResult(r *domain.RenderResult) *domain.RenderResult {
	out := *r
	out.StyledText = r.StyledText.Clone()
	if r.Elements != nil {
		out.Elements = append([]domain.ContentElement(nil), r.Elements...)
	}
	return &out
}

// ABOUTME: RichViewCache keeps converted Markdown, styled text and extracted elements
// ABOUTME: Three go-cache tiers with hit/miss counters and an optional shared backing store

// Package viewcache is the render pipeline's cache. Each tier is keyed by
// a content hash of its input so identical text maps to the same entry
// from any call site. Memory entries never expire; callers clear tiers
// wholesale (ClearAll, MemoryPressure) instead of relying on eviction.
//
// When a backing interfaces.Cache is injected, the Markdown and styled
// tiers write through to it and fall back to it on a memory miss. Backing
// faults are logged and treated as misses. Backing keys carry a per-tier
// generation that is itself kept in the backing store, so clearing a tier
// on one instance hides its old backing entries from every instance once
// they next refresh the generation. Memory tiers stay per process.
package viewcache

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
)

const (
	// DefaultKeyPrefix namespaces backing-store keys
	DefaultKeyPrefix = "richview"

	// DefaultGenerationRefresh is how long a generation read from the
	// backing store is reused before it is read again
	DefaultGenerationRefresh = 5 * time.Second
)

// Config tunes the backing store; the memory tiers need no settings
type Config struct {
	// BackingTTL bounds backing entries. Zero keeps them indefinitely.
	BackingTTL time.Duration

	// KeyPrefix namespaces backing keys, DefaultKeyPrefix when empty
	KeyPrefix string

	// GenerationRefresh bounds how stale a tier generation may be,
	// DefaultGenerationRefresh when zero
	GenerationRefresh time.Duration
}

// Cache implements the three-tier RichViewCache. It is safe for
// concurrent use.
type Cache struct {
	markdown *tier
	styled   *tier
	elements *tier

	backing interfaces.Cache
	config  Config
	logger  interfaces.Logger
}

// New creates a cache. deps.Cache, when set, becomes the backing store.
func New(deps interfaces.Dependencies, cfg Config) *Cache {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.GenerationRefresh <= 0 {
		cfg.GenerationRefresh = DefaultGenerationRefresh
	}
	return &Cache{
		markdown: newTier(TierMarkdown),
		styled:   newTier(TierStyled),
		elements: newTier(TierElements),
		backing:  deps.Cache,
		config:   cfg,
		logger:   deps.LoggerOrNop(),
	}
}

// GetMarkdown looks up converted Markdown
func (c *Cache) GetMarkdown(ctx context.Context, key string) (string, bool) {
	if v, ok := c.markdown.lookup(key); ok {
		c.markdown.hit()
		return v.(string), true
	}
	if data, ok := c.fetch(ctx, c.markdown, key); ok {
		markdown := string(data)
		c.markdown.put(key, markdown)
		c.markdown.hit()
		return markdown, true
	}
	c.markdown.miss()
	return "", false
}

// SetMarkdown stores converted Markdown
func (c *Cache) SetMarkdown(ctx context.Context, key, markdown string) {
	c.markdown.put(key, markdown)
	c.store(ctx, c.markdown, key, []byte(markdown))
}

// GetStyled looks up rendered styled text. The returned value is a copy.
func (c *Cache) GetStyled(ctx context.Context, key string) (domain.StyledText, bool) {
	if v, ok := c.styled.lookup(key); ok {
		c.styled.hit()
		return v.(domain.StyledText).Clone(), true
	}
	if data, ok := c.fetch(ctx, c.styled, key); ok {
		var st domain.StyledText
		if err := decodeStyled(data, &st); err != nil {
			c.fault("decode", c.styled, key, err)
		} else {
			c.styled.put(key, st)
			c.styled.hit()
			return st.Clone(), true
		}
	}
	c.styled.miss()
	return domain.StyledText{}, false
}

// SetStyled stores rendered styled text
func (c *Cache) SetStyled(ctx context.Context, key string, st domain.StyledText) {
	st = st.Clone()
	c.styled.put(key, st)
	if c.backing == nil {
		return
	}
	data, err := encodeStyled(st)
	if err != nil {
		c.fault("encode", c.styled, key, err)
		return
	}
	c.store(ctx, c.styled, key, data)
}

// GetElements looks up extracted content elements. This tier is memory
// only.
func (c *Cache) GetElements(key string) ([]domain.ContentElement, bool) {
	if v, ok := c.elements.lookup(key); ok {
		c.elements.hit()
		return copyElements(v.([]domain.ContentElement)), true
	}
	c.elements.miss()
	return nil, false
}

// SetElements stores extracted content elements
func (c *Cache) SetElements(key string, elements []domain.ContentElement) {
	c.elements.put(key, copyElements(elements))
}

// ClearMarkdown drops every Markdown entry; counters are kept
func (c *Cache) ClearMarkdown() { c.clear(c.markdown) }

// ClearStyled drops every styled-text entry; counters are kept
func (c *Cache) ClearStyled() { c.clear(c.styled) }

// ClearElements drops every element entry; counters are kept
func (c *Cache) ClearElements() { c.elements.flush() }

// ClearAll drops every entry in every tier and zeroes all counters.
// Backing entries written before the clear become unreachable.
func (c *Cache) ClearAll() {
	c.clear(c.markdown)
	c.clear(c.styled)
	c.elements.flush()
	for _, t := range c.tiers() {
		t.resetCounters()
	}
}

// clear flushes a backed tier and moves it to a new generation
func (c *Cache) clear(t *tier) {
	t.flush()
	if c.backing == nil {
		t.generation.Add(1)
		return
	}
	ctx := context.Background()
	stored, _ := c.loadGeneration(ctx, t)
	next := t.adopt(stored) + 1
	t.adopt(next)
	t.loadedAt.Store(time.Now().UnixNano())
	if err := c.backing.Set(ctx, c.generationKey(t), []byte(strconv.FormatUint(next, 10)), 0); err != nil {
		c.fault("set generation", t, c.generationKey(t), err)
	}
}

// MemoryPressure is the response to a low-memory signal. There is no
// per-entry eviction, so it clears everything.
func (c *Cache) MemoryPressure() {
	before := c.Statistics()
	c.ClearAll()
	c.logger.Info("Render cache cleared on memory pressure", map[string]interface{}{
		"markdown_entries": before.Markdown.Entries,
		"styled_entries":   before.Styled.Entries,
		"elements_entries": before.Elements.Entries,
	})
}

// Statistics returns a snapshot of the counters
func (c *Cache) Statistics() Statistics {
	s := Statistics{
		Markdown: c.markdown.statistics(),
		Styled:   c.styled.statistics(),
		Elements: c.elements.statistics(),
	}
	s.HitRate = hitRate(
		s.Markdown.Hits+s.Styled.Hits+s.Elements.Hits,
		s.Markdown.Misses+s.Styled.Misses+s.Elements.Misses,
	)
	return s
}

func (c *Cache) tiers() []*tier {
	return []*tier{c.markdown, c.styled, c.elements}
}

func (c *Cache) backingKey(gen uint64, key string) string {
	return fmt.Sprintf("%s:%d:%s", c.config.KeyPrefix, gen, key)
}

func (c *Cache) generationKey(t *tier) string {
	return fmt.Sprintf("%s:generation:%s", c.config.KeyPrefix, t.name)
}

// generation returns the tier's backing generation, reading it again
// once the last read is older than GenerationRefresh
func (c *Cache) generation(ctx context.Context, t *tier) uint64 {
	if time.Since(time.Unix(0, t.loadedAt.Load())) < c.config.GenerationRefresh {
		return t.generation.Load()
	}
	t.loadedAt.Store(time.Now().UnixNano())
	if stored, ok := c.loadGeneration(ctx, t); ok {
		return t.adopt(stored)
	}
	return t.generation.Load()
}

// loadGeneration reads the stored generation. A missing key is
// generation zero.
func (c *Cache) loadGeneration(ctx context.Context, t *tier) (uint64, bool) {
	data, err := c.backing.Get(ctx, c.generationKey(t))
	if stderrors.Is(err, interfaces.ErrNotFound) {
		return 0, true
	}
	if err != nil {
		c.logger.Debug("Render cache generation unavailable", map[string]interface{}{
			"tier":  string(t.name),
			"error": err.Error(),
		})
		return 0, false
	}
	gen, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		c.fault("decode generation", t, c.generationKey(t), err)
		return 0, false
	}
	return gen, true
}

func (c *Cache) fetch(ctx context.Context, t *tier, key string) ([]byte, bool) {
	if c.backing == nil {
		return nil, false
	}
	data, err := c.backing.Get(ctx, c.backingKey(c.generation(ctx, t), key))
	if err != nil {
		if !stderrors.Is(err, interfaces.ErrNotFound) {
			c.fault("get", t, key, err)
		}
		return nil, false
	}
	return data, true
}

func (c *Cache) store(ctx context.Context, t *tier, key string, data []byte) {
	if c.backing == nil {
		return
	}
	if err := c.backing.Set(ctx, c.backingKey(c.generation(ctx, t), key), data, c.config.BackingTTL); err != nil {
		c.fault("set", t, key, err)
	}
}

// fault records a backing-store problem. It never fails the caller.
func (c *Cache) fault(op string, t *tier, key string, cause error) {
	err := &errors.CacheError{Reason: "backing " + op, Cause: cause}
	c.logger.Warn("Render cache backing store fault", map[string]interface{}{
		"tier":  string(t.name),
		"key":   key,
		"error": err.Error(),
	})
}

func copyElements(elements []domain.ContentElement) []domain.ContentElement {
	if elements == nil {
		return nil
	}
	out := make([]domain.ContentElement, len(elements))
	copy(out, elements)
	return out
}

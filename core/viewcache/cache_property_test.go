package viewcache

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"v2ex-richview/core/interfaces"
)

func TestCacheProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ctx := context.Background()

	properties.Property("get after set returns the stored value", prop.ForAll(
		func(html, markdown string) bool {
			c := New(interfaces.Dependencies{Cache: newMapBacking()}, Config{})
			key := MarkdownKey(html, interfaces.ConvertOptions{})
			c.SetMarkdown(ctx, key, markdown)
			got, ok := c.GetMarkdown(ctx, key)
			return ok && got == markdown
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("clear all leaves zero statistics", prop.ForAll(
		func(keys []string) bool {
			c := New(interfaces.Dependencies{}, Config{})
			for _, k := range keys {
				c.SetMarkdown(ctx, k, k)
				c.GetMarkdown(ctx, k)
				c.GetElements(k)
			}
			c.ClearAll()
			return c.Statistics().IsZero()
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("equal text maps to equal keys", prop.ForAll(
		func(html string) bool {
			opts := interfaces.ConvertOptions{BaseURL: "https://www.v2ex.com"}
			return MarkdownKey(html, opts) == MarkdownKey(string([]byte(html)), opts)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
)

func TestConverter_Extract(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, &stubDetector{})

	t.Run("paragraph runs carry formatting", func(t *testing.T) {
		got, err := c.Extract(`<p>Hello <strong>World</strong> <a href="/t/1">link</a></p>`, strict())

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.Paragraph{Runs: []domain.TextRun{
			{Text: "Hello "},
			{Text: "World", Bold: true},
			{Text: " "},
			{Text: "link", Link: "https://www.v2ex.com/t/1"},
		}}, got[0])
	})

	t.Run("line breaks stay inside the paragraph", func(t *testing.T) {
		got, err := c.Extract(`a<br>b`, strict())

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a\nb", got[0].(domain.Paragraph).Text())
	})

	t.Run("image splits the paragraph", func(t *testing.T) {
		got, err := c.Extract(`<p>before<img src="/i.png" alt="pic">after</p>`, strict())

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "before", got[0].(domain.Paragraph).Text())
		assert.Equal(t, domain.Image{URL: "https://www.v2ex.com/i.png", Alt: "pic"}, got[1])
		assert.Equal(t, "after", got[2].(domain.Paragraph).Text())
	})

	t.Run("block elements", func(t *testing.T) {
		got, err := c.Extract(`<h3>Title</h3>`+
			`<pre><code class="language-go">x := 1</code></pre>`+
			`<blockquote><p>quoted</p></blockquote>`+
			`<hr>`+
			`<ol start="2"><li>first</li><li>second</li></ol>`, strict())

		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, domain.Heading{Text: "Title", Level: 3}, got[0])
		assert.Equal(t, domain.CodeBlock{Code: "x := 1", Language: "go"}, got[1])
		assert.Equal(t, domain.Blockquote{Children: []domain.ContentElement{
			domain.Paragraph{Runs: []domain.TextRun{{Text: "quoted"}}},
		}}, got[2])
		assert.Equal(t, domain.Rule{}, got[3])

		list, ok := got[4].(domain.List)
		require.True(t, ok)
		assert.True(t, list.Ordered)
		assert.Equal(t, 2, list.Start)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "second", list.Items[1][0].(domain.Paragraph).Text())
	})

	t.Run("table with header", func(t *testing.T) {
		got, err := c.Extract(`<table><tr><th>K</th><th>V</th></tr><tr><td>a</td><td>1 | 2</td></tr></table>`, strict())

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.Table{
			Header: []string{"K", "V"},
			Rows:   [][]string{{"a", "1 | 2"}},
		}, got[0])
	})

	t.Run("table without header", func(t *testing.T) {
		got, err := c.Extract(`<table><tr><td>a</td></tr></table>`, strict())

		require.NoError(t, err)
		assert.Equal(t, domain.Table{Rows: [][]string{{"a"}}}, got[0])
	})

	t.Run("whitespace between blocks is ignored", func(t *testing.T) {
		got, err := c.Extract("<p>a</p>\n\n<p>b</p>\n", strict())

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestConverter_ExtractPolicy(t *testing.T) {
	t.Run("strict fails", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		_, err := c.Extract(`<video>x</video>`, strict())

		assert.True(t, errors.IsUnsupportedTag(err))
	})

	t.Run("strict checks tags inside code", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		for _, src := range []string{
			`<pre><code><video>x</video></code></pre>`,
			`<p><code>a<video>b</video></code></p>`,
		} {
			_, err := c.Extract(src, strict())

			var tagErr *errors.UnsupportedTagError
			require.ErrorAs(t, err, &tagErr, src)
			assert.Equal(t, "video", tagErr.Tag, src)
		}
	})

	t.Run("script links lose their target", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Extract(`<p><a href="javascript:alert(1)">x</a> <a href="mailto:a@v2ex.com">m</a></p>`, strict())

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, domain.Paragraph{Runs: []domain.TextRun{
			{Text: "x "},
			{Text: "m", Link: "mailto:a@v2ex.com"},
		}}, got[0])
	})

	t.Run("lenient keeps raw html", func(t *testing.T) {
		logger := &mockLogger{}
		c := NewConverter(interfaces.Dependencies{Logger: logger}, nil)
		got, err := c.Extract(`<p>a</p><video>x</video>`, lenient())

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, domain.Raw{HTML: "<video>x</video>"}, got[1])
		assert.Equal(t, 1, logger.count("warn"))
	})

	t.Run("image urls are collected", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Extract(`<img src="//i.v2ex.co/a.png"><blockquote><img src="/b.png"></blockquote>`, strict())

		require.NoError(t, err)
		assert.Equal(t, []string{"https://i.v2ex.co/a.png", "https://www.v2ex.com/b.png"}, domain.ImageURLs(got))
	})
}

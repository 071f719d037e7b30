package converter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
)

func strict() interfaces.ConvertOptions {
	return interfaces.ConvertOptions{Policy: domain.TagPolicyStrict, BaseURL: domain.DefaultBaseURL}
}

func lenient() interfaces.ConvertOptions {
	return interfaces.ConvertOptions{Policy: domain.TagPolicyLenient, BaseURL: domain.DefaultBaseURL}
}

func TestConverter_Convert(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)

	tests := []struct {
		name string
		html string
		want string
	}{
		{"strong inside paragraph", `<p>Hello <strong>World</strong></p>`, "Hello **World**"},
		{"b and i", `<b>bold</b> and <i>italic</i>`, "**bold** and *italic*"},
		{"whitespace moves outside markers", `<p>a<strong> b </strong>c</p>`, "a **b** c"},
		{"empty strong emits nothing", `<p>x<strong></strong>y</p>`, "xy"},
		{"strikethrough", `<del>gone</del> <s>old</s>`, "~~gone~~ ~~old~~"},
		{"underline and scripts", `<u>u</u> x<sup>2</sup> H<sub>2</sub>O`, "<u>u</u> x<sup>2</sup> H<sub>2</sub>O"},
		{"line break", `first<br>second`, "first\nsecond"},
		{"paragraphs", `<p>a</p><p>b</p>`, "a\n\nb"},
		{"excess newlines collapse", `<p>a</p><br><br><br><p>b</p>`, "a\n\nb"},
		{"escapes metacharacters", `<p>a*b_c[d]\e</p>`, `a\*b\_c\[d\]\\e`},
		{"escapes tildes", `<p>a~b</p>`, `a\~b`},
		{"decoded markup stays text", `<p>&lt;u&gt;literal&lt;/u&gt; and AT&amp;amp;T</p>`, `\<u>literal\</u> and AT\&amp;T`},
		{"protocol relative link", `<a href="//www.v2ex.com/t/123">x</a>`, "[x](https://www.v2ex.com/t/123)"},
		{"root relative link", `<a href="/member/livid">@livid</a>`, "[@livid](https://www.v2ex.com/member/livid)"},
		{"absolute link kept", `<a href="https://example.com/a">a</a>`, "[a](https://example.com/a)"},
		{"link without href", `<a>plain</a>`, "plain"},
		{"script link keeps text", `<a href="javascript:alert(1)">x</a>`, "x"},
		{"mailto link", `<a href="mailto:livid@v2ex.com">mail</a>`, "[mail](mailto:livid@v2ex.com)"},
		{"link without text", `<a href="https://example.com"></a>`, "[https://example.com](https://example.com)"},
		{"link with spaces", `<a href="https://example.com/a b">a</a>`, "[a](https://example.com/a%20b)"},
		{"image", `<img src="//i.v2ex.co/x.png" alt="shot">`, "![shot](https://i.v2ex.co/x.png)"},
		{"image without src", `<img alt="none">`, ""},
		{"heading", `<h2>Title <em>here</em></h2>`, "## Title *here*"},
		{"rule", `<p>a</p><hr><p>b</p>`, "a\n\n---\n\nb"},
		{"inline code not escaped", `<code>a*b_c</code>`, "`a*b_c`"},
		{"inline code with backtick", "<code>a`b</code>", "``a`b``"},
		{"unordered list", `<ul><li>one</li><li>two</li></ul>`, "- one\n- two"},
		{"ordered list start", `<ol start="3"><li>a</li><li>b</li></ol>`, "3. a\n4. b"},
		{"nested list", `<ul><li>one<ul><li>sub</li></ul></li><li>two</li></ul>`, "- one\n  - sub\n- two"},
		{"blockquote", `<blockquote><p>a</p><p>b</p></blockquote>`, "> a\n>\n> b"},
		{"transparent containers", `<div><span>in</span> div</div>`, "in div"},
		{"comment dropped", `<p>a<!-- hidden -->b</p>`, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.html, strict())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_EmphasisFlanking(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)

	tests := []struct {
		name string
		html string
		want string
	}{
		{"punctuation inside before a letter", `<p><strong>"quoted"</strong>x</p>`, `<b>"quoted"</b>x`},
		{"punctuation inside after space", `<p>say <strong>"hi"</strong> now</p>`, `say **"hi"** now`},
		{"adjacent bold merges", `<p><strong>a</strong><strong>b</strong></p>`, "**ab**"},
		{"merge across transparent span", `<p><span><b>a</b></span><b>b</b></p>`, "**ab**"},
		{"bold then italic", `<p><b>a</b><i>b</i></p>`, "**a**<i>b</i>"},
		{"italic inside bold", `<p><b><i>x</i></b></p>`, "<b>*x*</b>"},
		{"adjacent strikes merge", `<p><del>a</del><s>b</s></p>`, "~~ab~~"},
		{"cjk punctuation inside", `<p>是<b>「重要」</b>的</p>`, "是<b>「重要」</b>的"},
		{"cjk punctuation outside", `<p>「<b>重要</b>」</p>`, "「**重要**」"},
		{"escaped marker at edge", `<p><em>a*</em></p>`, `<i>a\*</i>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.html, strict())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_CustomBaseURL(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)
	opts := strict()
	opts.BaseURL = "https://global.v2ex.co"

	got, err := c.Convert(`<a href="/t/1">t</a>`, opts)

	require.NoError(t, err)
	assert.Equal(t, "[t](https://global.v2ex.co/t/1)", got)
}

func TestConverter_CodeBlocks(t *testing.T) {
	t.Run("language from code class", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Convert("<pre><code class=\"language-go\">x := 1\n</code></pre>", strict())

		require.NoError(t, err)
		assert.Equal(t, "```go\nx := 1\n```", got)
	})

	t.Run("lang prefix is normalized", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Convert(`<pre class="lang-js">let a</pre>`, strict())

		require.NoError(t, err)
		assert.Equal(t, "```javascript\nlet a\n```", got)
	})

	t.Run("language detected from content", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Convert("<pre>def f():\n    print(1)</pre>", strict())

		require.NoError(t, err)
		assert.Equal(t, "```python\ndef f():\n    print(1)\n```", got)
	})

	t.Run("class wins over detection", func(t *testing.T) {
		detector := &stubDetector{lang: "python"}
		c := NewConverter(interfaces.Dependencies{}, detector)
		_, err := c.Convert(`<pre><code class="language-rust">fn x() {}</code></pre>`, strict())

		require.NoError(t, err)
		assert.Zero(t, detector.calls)
	})

	t.Run("unknown language left unset", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, &stubDetector{})
		got, err := c.Convert(`<pre>hello world</pre>`, strict())

		require.NoError(t, err)
		assert.Equal(t, "```\nhello world\n```", got)
	})

	t.Run("fence grows past backticks in code", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, &stubDetector{})
		got, err := c.Convert("<pre>```\nx\n```</pre>", strict())

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "````\n"), got)
		assert.True(t, strings.HasSuffix(got, "\n````"), got)
	})

	t.Run("code is not escaped", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, &stubDetector{})
		got, err := c.Convert(`<pre>a_b *c* [d]</pre>`, strict())

		require.NoError(t, err)
		assert.Contains(t, got, "a_b *c* [d]")
	})
}

func TestConverter_Tables(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)

	t.Run("pipe in cell is escaped", func(t *testing.T) {
		got, err := c.Convert(`<table><tr><td>A | B</td></tr></table>`, strict())

		require.NoError(t, err)
		assert.Contains(t, got, `A \| B`)
	})

	t.Run("header row and body", func(t *testing.T) {
		got, err := c.Convert(`<table><thead><tr><th>Name</th><th>Value</th></tr></thead>`+
			`<tbody><tr><td>a</td><td>1</td></tr><tr><td>b</td></tr></tbody></table>`, strict())

		require.NoError(t, err)
		assert.Equal(t, "| Name | Value |\n| --- | --- |\n| a | 1 |\n| b |  |", got)
	})

	t.Run("unsupported table part", func(t *testing.T) {
		_, err := c.Convert(`<table><caption>c</caption><tr><td>x</td></tr></table>`, strict())

		assert.True(t, errors.IsUnsupportedTag(err))
	})
}

func TestConverter_UnsupportedTags(t *testing.T) {
	t.Run("strict fails with tag and context", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		out, err := c.Convert(`<video>x</video>`, strict())

		require.Error(t, err)
		assert.Empty(t, out)
		var tagErr *errors.UnsupportedTagError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, "video", tagErr.Tag)
		assert.Equal(t, "<video>x</video>", tagErr.Context)
	})

	t.Run("context is truncated", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		_, err := c.Convert("<video>"+strings.Repeat("界", 200)+"</video>", strict())

		var tagErr *errors.UnsupportedTagError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, contextSnippetLength, utf8.RuneCountInString(tagErr.Context))
		assert.True(t, strings.HasPrefix(tagErr.Context, "<video>"))
	})

	t.Run("lenient degrades to text and warns", func(t *testing.T) {
		logger := &mockLogger{}
		c := NewConverter(interfaces.Dependencies{Logger: logger}, nil)
		got, err := c.Convert(`<p>see <video>clip</video></p>`, lenient())

		require.NoError(t, err)
		assert.Equal(t, "see clip", got)
		assert.Equal(t, 1, logger.count("warn"))
	})

	t.Run("tags inside code blocks are checked", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		for _, src := range []string{
			`<pre><code><video>x</video></code></pre>`,
			`<pre><span><video>x</video></span></pre>`,
			`<p><code>a<video>b</video></code></p>`,
		} {
			_, err := c.Convert(src, strict())

			var tagErr *errors.UnsupportedTagError
			require.ErrorAs(t, err, &tagErr, src)
			assert.Equal(t, "video", tagErr.Tag, src)
		}
	})

	t.Run("lenient keeps code text and warns", func(t *testing.T) {
		logger := &mockLogger{}
		c := NewConverter(interfaces.Dependencies{Logger: logger}, nil)
		got, err := c.Convert(`<p><code>a<video>b</video></code></p>`, lenient())

		require.NoError(t, err)
		assert.Equal(t, "`ab`", got)
		assert.Equal(t, 1, logger.count("warn"))
	})

	t.Run("lenient drops scripts", func(t *testing.T) {
		c := NewConverter(interfaces.Dependencies{}, nil)
		got, err := c.Convert(`<p>a</p><script>alert(1)</script>`, lenient())

		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("escalation forces failure and logs an error", func(t *testing.T) {
		logger := &mockLogger{}
		c := NewConverter(interfaces.Dependencies{Logger: logger}, nil)
		opts := lenient()
		opts.Escalate = true

		_, err := c.Convert(`<iframe src="x"></iframe>`, opts)

		assert.True(t, errors.IsUnsupportedTag(err))
		assert.Equal(t, 1, logger.count("error"))
	})
}

func TestConverter_InvalidUTF8(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)

	_, err := c.Convert("<p>\xff\xfe</p>", strict())

	assert.True(t, errors.IsInvalidHTML(err))
}

func TestConverter_Idempotent(t *testing.T) {
	c := NewConverter(interfaces.Dependencies{}, nil)
	src := `<p>Hi <a href="/t/1">topic</a></p><pre>x := 1</pre><ul><li>a</li></ul>`

	first, err := c.Convert(src, strict())
	require.NoError(t, err)
	second, err := c.Convert(src, strict())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIsSupportedTag(t *testing.T) {
	for _, tag := range []string{"p", "strong", "pre", "table", "td", "sup", "strike"} {
		assert.True(t, IsSupportedTag(tag), tag)
	}
	for _, tag := range []string{"video", "script", "iframe", "madeup"} {
		assert.False(t, IsSupportedTag(tag), tag)
	}
}

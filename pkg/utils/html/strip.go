// ABOUTME: HTML utilities for reducing markup to plain text
// ABOUTME: Used as the fallback body when rich rendering fails

package html

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// breakBefore lists elements that start a new line in the plain-text form
var breakBefore = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Hr: true, atom.Ul: true, atom.Ol: true, atom.Table: true,
}

// StripHTML removes tags, decodes entities and normalizes whitespace.
// Block-level elements become line breaks; script and style bodies are dropped.
func StripHTML(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way keep what was read
			return normalize(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if (a == atom.Script || a == atom.Style) && tt == html.StartTagToken {
				skip++
				b.WriteByte(' ')
				continue
			}
			if breakBefore[a] {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if skip > 0 {
					skip--
				}
				continue
			}
			if breakBefore[a] {
				b.WriteByte('\n')
			}
		}
	}
}

// DecodeEntities decodes HTML character references
func DecodeEntities(text string) string {
	return html.UnescapeString(text)
}

// normalize collapses runs of spaces within lines and drops blank lines
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// ABOUTME: HTML to Markdown converter for forum post and reply fragments
// ABOUTME: Walks a fixed tag allow-list and emits canonical Markdown

// Package converter turns untrusted HTML fragments into canonical Markdown
// and into structured content elements. Both outputs share one allow-list,
// one URL rewriting pass and one unsupported-tag policy.
package converter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/errors"
	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/language"
)

const contextSnippetLength = 100

// Converter implements interfaces.MarkdownConverter and
// interfaces.ElementExtractor. It holds no per-call state.
type Converter struct {
	detector interfaces.LanguageDetector
	logger   interfaces.Logger
}

// NewConverter creates a converter. A nil detector selects the built-in
// language detector.
func NewConverter(deps interfaces.Dependencies, detector interfaces.LanguageDetector) *Converter {
	if detector == nil {
		detector = language.NewDetector()
	}
	return &Converter{
		detector: detector,
		logger:   deps.LoggerOrNop(),
	}
}

// Convert turns an HTML fragment into Markdown
func (c *Converter) Convert(src string, opts interfaces.ConvertOptions) (string, error) {
	root, err := c.parse(src, opts)
	if err != nil {
		return "", err
	}

	w := &markdownWalker{converter: c, opts: opts}
	out, err := w.children(root)
	if err != nil {
		return "", err
	}
	return finalize(out), nil
}

// parse builds the node tree and rewrites relative URLs in place
func (c *Converter) parse(src string, opts interfaces.ConvertOptions) (*html.Node, error) {
	if !utf8.ValidString(src) {
		return nil, &errors.InvalidHTMLError{Reason: "input is not valid UTF-8"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, &errors.InvalidHTMLError{Reason: err.Error()}
	}

	base := opts.BaseURL
	if base == "" {
		base = domain.DefaultBaseURL
	}
	rewriteURLs(doc, strings.TrimRight(base, "/"))

	return doc.Get(0), nil
}

// unsupported applies the tag policy to an element outside the allow-list.
// It returns nil when the element should be degraded instead of failing.
func (c *Converter) unsupported(n *html.Node, opts interfaces.ConvertOptions) error {
	snippet := contextSnippet(n)
	fields := map[string]interface{}{
		"tag":     n.Data,
		"context": snippet,
	}

	if opts.Escalate {
		c.logger.Error("Unsupported tag outside the allow-list", fields)
	}
	if opts.Policy == domain.TagPolicyStrict || opts.Escalate {
		return &errors.UnsupportedTagError{Tag: n.Data, Context: snippet}
	}

	c.logger.Warn("Unsupported tag degraded to text", fields)
	return nil
}

func contextSnippet(n *html.Node) string {
	s := renderNode(n)
	if s == "" {
		return "<" + n.Data + ">"
	}
	if utf8.RuneCountInString(s) <= contextSnippetLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:contextSnippetLength])
}

type markdownWalker struct {
	converter *Converter
	opts      interfaces.ConvertOptions
}

func (w *markdownWalker) children(n *html.Node) (string, error) {
	pieces, err := w.pieces(n, nil)
	if err != nil {
		return "", err
	}
	return joinPieces(pieces), nil
}

// pieces renders n's children in order. Transparent children are
// flattened into the sequence and bold, italic and strikethrough children
// stay unrendered so joinPieces can pick their markers from the neighbours.
func (w *markdownWalker) pieces(n *html.Node, out []inlinePiece) ([]inlinePiece, error) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			switch cls := classify(child); cls {
			case tagTransparent:
				var err error
				if out, err = w.pieces(child, out); err != nil {
					return nil, err
				}
				continue
			case tagStrong, tagEmphasis, tagStrike:
				inner, err := w.children(child)
				if err != nil {
					return nil, err
				}
				out = appendPiece(out, delimited(cls, inner))
				continue
			}
		}
		s, err := w.node(child)
		if err != nil {
			return nil, err
		}
		out = append(out, inlinePiece{text: s})
	}
	return out, nil
}

func (w *markdownWalker) node(n *html.Node) (string, error) {
	switch n.Type {
	case html.TextNode:
		return escapeText(strings.ReplaceAll(n.Data, "\r\n", "\n")), nil
	case html.ElementNode:
		return w.element(n)
	case html.DocumentNode:
		return w.children(n)
	}
	// comments and doctypes carry no content
	return "", nil
}

func (w *markdownWalker) element(n *html.Node) (string, error) {
	switch classify(n) {
	case tagTransparent:
		return w.children(n)
	case tagBlockContainer:
		inner, err := w.children(n)
		if err != nil || inner == "" || strings.HasSuffix(inner, "\n") {
			return inner, err
		}
		return inner + "\n", nil
	case tagParagraph:
		inner, err := w.children(n)
		if err != nil {
			return "", err
		}
		return block(strings.TrimSpace(inner)), nil
	case tagLineBreak:
		return "\n", nil
	case tagStrong, tagEmphasis, tagStrike:
		inner, err := w.children(n)
		if err != nil {
			return "", err
		}
		return joinPieces([]inlinePiece{delimited(classify(n), inner)}), nil
	case tagUnderline:
		return w.wrap(n, "<u>", "</u>")
	case tagSuperscript:
		return w.wrap(n, "<sup>", "</sup>")
	case tagSubscript:
		return w.wrap(n, "<sub>", "</sub>")
	case tagInlineCode:
		if err := w.converter.checkSubtree(n, w.opts); err != nil {
			return "", err
		}
		return inlineCode(textContent(n)), nil
	case tagPre:
		return w.pre(n)
	case tagLink:
		return w.link(n)
	case tagImage:
		return image(n), nil
	case tagRule:
		return block("---"), nil
	case tagHeading:
		return w.heading(n)
	case tagBlockquote:
		return w.blockquote(n)
	case tagList:
		return w.list(n)
	case tagListItem:
		// a list item outside ul/ol
		item, err := w.listItem(n, "- ")
		if err != nil {
			return "", err
		}
		return block(item), nil
	case tagTable:
		return w.table(n)
	case tagTableSection, tagTableRow, tagTableCell:
		// table parts outside a table keep their content
		return w.children(n)
	}

	if err := w.unsupported(n); err != nil {
		return "", err
	}
	if silentTags[n.DataAtom] {
		return "", nil
	}
	return escapeText(textContent(n)), nil
}

func (w *markdownWalker) unsupported(n *html.Node) error {
	return w.converter.unsupported(n, w.opts)
}

// block surrounds block-level output with blank lines
func block(s string) string {
	if s == "" {
		return ""
	}
	return "\n\n" + s + "\n\n"
}

// wrap emits open/close markers around the element's content, keeping
// surrounding whitespace outside the markers
func (w *markdownWalker) wrap(n *html.Node, opener, closer string) (string, error) {
	inner, err := w.children(n)
	if err != nil {
		return "", err
	}
	lead, core, trail := splitSpace(inner)
	if core == "" {
		return inner, nil
	}
	return lead + opener + core + closer + trail, nil
}

func (w *markdownWalker) pre(n *html.Node) (string, error) {
	if err := w.converter.checkSubtree(n, w.opts); err != nil {
		return "", err
	}
	code := preCode(n)
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	fence := codeFence(code)
	lang := w.converter.codeLanguage(n, code)
	return block(fence + lang + "\n" + code + "\n" + fence), nil
}

func (w *markdownWalker) link(n *html.Node) (string, error) {
	inner, err := w.children(n)
	if err != nil {
		return "", err
	}
	href := attr(n, "href")
	if !domain.IsTappableURL(href) {
		return inner, nil
	}
	text := strings.TrimSpace(inner)
	if text == "" {
		text = escapeText(href)
	}
	return "[" + text + "](" + escapeURL(href) + ")", nil
}

func image(n *html.Node) string {
	src := attr(n, "src")
	if src == "" {
		return ""
	}
	alt := strings.ReplaceAll(attr(n, "alt"), "\n", " ")
	return "![" + escapeText(alt) + "](" + escapeURL(src) + ")"
}

func (w *markdownWalker) heading(n *html.Node) (string, error) {
	inner, err := w.children(n)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(newlineRuns.ReplaceAllString(inner, " "))
	if text == "" {
		return "", nil
	}
	return block(strings.Repeat("#", headingLevel(n)) + " " + text), nil
}

func (w *markdownWalker) blockquote(n *html.Node) (string, error) {
	inner, err := w.children(n)
	if err != nil {
		return "", err
	}
	inner = finalize(inner)
	if inner == "" {
		return "", nil
	}
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return block(strings.Join(lines, "\n")), nil
}

func (w *markdownWalker) list(n *html.Node) (string, error) {
	ordered := n.DataAtom == atom.Ol
	number := 1
	if ordered {
		if start, err := strconv.Atoi(attr(n, "start")); err == nil {
			number = start
		}
	}

	var items []string
	lastMarker := "- "
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		if child.Type == html.ElementNode && classify(child) == tagList && len(items) > 0 {
			// a list nested directly in a list belongs to the previous item
			nested, err := w.list(child)
			if err != nil {
				return "", err
			}
			items[len(items)-1] += "\n" + indentLines(strings.TrimSpace(nested), strings.Repeat(" ", len(lastMarker)))
			continue
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(number) + ". "
		}
		item, err := w.listItem(child, marker)
		if err != nil {
			return "", err
		}
		if item == "" {
			continue
		}
		items = append(items, item)
		lastMarker = marker
		number++
	}
	return block(strings.Join(items, "\n")), nil
}

// listItem renders one item: marker on the first line, continuation lines
// indented under it, blank lines removed so the list stays tight
func (w *markdownWalker) listItem(n *html.Node, marker string) (string, error) {
	var content string
	var err error
	if n.Type == html.ElementNode && classify(n) == tagListItem {
		content, err = w.children(n)
	} else {
		content, err = w.node(n)
	}
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(newlineRuns.ReplaceAllString(content, "\n"))
	if content == "" {
		return "", nil
	}

	return marker + indentLines(content, strings.Repeat(" ", len(marker)))[len(marker):], nil
}

// indentLines prefixes every line of s with indent
func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (w *markdownWalker) table(n *html.Node) (string, error) {
	rows, err := tableRows(n, w.unsupported)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	cells := make([][]string, len(rows))
	width := 0
	for i, row := range rows {
		for _, cell := range row {
			inner, err := w.children(cell)
			if err != nil {
				return "", err
			}
			text := strings.TrimSpace(newlineRuns.ReplaceAllString(inner, " "))
			cells[i] = append(cells[i], pipeEscaper.Replace(text))
		}
		if len(cells[i]) > width {
			width = len(cells[i])
		}
	}
	if width == 0 {
		return "", nil
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	// GFM requires a header; the first row stands in when there is no th
	writeRow(cells[0])
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range cells[1:] {
		writeRow(row)
	}
	return block(strings.TrimRight(b.String(), "\n")), nil
}

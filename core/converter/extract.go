package converter

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
)

// Extract turns an HTML fragment into structured content elements. It
// shares the allow-list and tag policy with Convert; under the lenient
// policy unsupported elements become domain.Raw.
func (c *Converter) Extract(src string, opts interfaces.ConvertOptions) ([]domain.ContentElement, error) {
	root, err := c.parse(src, opts)
	if err != nil {
		return nil, err
	}
	return c.elements(root, opts)
}

func (c *Converter) elements(n *html.Node, opts interfaces.ConvertOptions) ([]domain.ContentElement, error) {
	w := &elementWalker{converter: c, opts: opts}
	if err := w.walk(n, domain.TextRun{}); err != nil {
		return nil, err
	}
	w.flush()
	return w.blocks, nil
}

// elementWalker accumulates inline runs into the current paragraph and
// emits block elements as it meets them. The style argument is a TextRun
// with empty Text describing the formatting in effect.
type elementWalker struct {
	converter *Converter
	opts      interfaces.ConvertOptions
	blocks    []domain.ContentElement
	runs      []domain.TextRun
}

func (w *elementWalker) walk(n *html.Node, style domain.TextRun) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := w.node(c, style); err != nil {
			return err
		}
	}
	return nil
}

func (w *elementWalker) node(n *html.Node, style domain.TextRun) error {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, style)
	case html.ElementNode:
		return w.element(n, style)
	case html.DocumentNode:
		return w.walk(n, style)
	}
	return nil
}

func (w *elementWalker) element(n *html.Node, style domain.TextRun) error {
	switch classify(n) {
	case tagTransparent, tagTableSection, tagTableRow, tagTableCell:
		return w.walk(n, style)
	case tagBlockContainer, tagParagraph:
		w.flush()
		if err := w.walk(n, style); err != nil {
			return err
		}
		w.flush()
		return nil
	case tagLineBreak:
		w.text("\n", style)
		return nil
	case tagStrong:
		style.Bold = true
		return w.walk(n, style)
	case tagEmphasis:
		style.Italic = true
		return w.walk(n, style)
	case tagStrike:
		style.Strikethrough = true
		return w.walk(n, style)
	case tagUnderline:
		style.Underline = true
		return w.walk(n, style)
	case tagSuperscript:
		style.Superscript = true
		return w.walk(n, style)
	case tagSubscript:
		style.Subscript = true
		return w.walk(n, style)
	case tagInlineCode:
		if err := w.converter.checkSubtree(n, w.opts); err != nil {
			return err
		}
		style.Code = true
		w.text(textContent(n), style)
		return nil
	case tagLink:
		if href := attr(n, "href"); domain.IsTappableURL(href) {
			style.Link = href
		}
		return w.walk(n, style)
	case tagImage:
		if src := attr(n, "src"); src != "" {
			w.emit(domain.Image{URL: src, Alt: attr(n, "alt")})
		}
		return nil
	case tagPre:
		if err := w.converter.checkSubtree(n, w.opts); err != nil {
			return err
		}
		code := preCode(n)
		if strings.TrimSpace(code) != "" {
			w.emit(domain.CodeBlock{Code: code, Language: w.converter.codeLanguage(n, code)})
		}
		return nil
	case tagRule:
		w.emit(domain.Rule{})
		return nil
	case tagHeading:
		children, err := w.nested(n)
		if err != nil {
			return err
		}
		if text := plainText(children); text != "" {
			w.emit(domain.Heading{Text: text, Level: headingLevel(n)})
		}
		return nil
	case tagBlockquote:
		children, err := w.nested(n)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			w.emit(domain.Blockquote{Children: children})
		}
		return nil
	case tagList:
		return w.list(n)
	case tagListItem:
		children, err := w.nested(n)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			w.emit(domain.List{Items: [][]domain.ContentElement{children}})
		}
		return nil
	case tagTable:
		return w.table(n)
	}

	if err := w.converter.unsupported(n, w.opts); err != nil {
		return err
	}
	if !silentTags[n.DataAtom] {
		w.emit(domain.Raw{HTML: renderNode(n)})
	}
	return nil
}

func (w *elementWalker) text(s string, style domain.TextRun) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" || (len(w.runs) == 0 && strings.TrimSpace(s) == "") {
		return
	}
	if last := len(w.runs) - 1; last >= 0 {
		prev := w.runs[last]
		prev.Text = ""
		if prev == style {
			w.runs[last].Text += s
			return
		}
	}
	run := style
	run.Text = s
	w.runs = append(w.runs, run)
}

// flush closes the current paragraph, trimming whitespace at its edges
func (w *elementWalker) flush() {
	runs := w.runs
	w.runs = nil
	if len(runs) == 0 {
		return
	}
	runs[0].Text = strings.TrimLeft(runs[0].Text, " \t\n")
	runs[len(runs)-1].Text = strings.TrimRight(runs[len(runs)-1].Text, " \t\n")

	kept := runs[:0]
	for _, r := range runs {
		if r.Text != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return
	}
	w.blocks = append(w.blocks, domain.Paragraph{Runs: kept})
}

func (w *elementWalker) emit(el domain.ContentElement) {
	w.flush()
	w.blocks = append(w.blocks, el)
}

// nested walks n's children into a fresh block list
func (w *elementWalker) nested(n *html.Node) ([]domain.ContentElement, error) {
	sub := &elementWalker{converter: w.converter, opts: w.opts}
	if err := sub.walk(n, domain.TextRun{}); err != nil {
		return nil, err
	}
	sub.flush()
	return sub.blocks, nil
}

func (w *elementWalker) list(n *html.Node) error {
	list := domain.List{Ordered: n.DataAtom == atom.Ol}
	if list.Ordered {
		list.Start = 1
		if start, err := strconv.Atoi(attr(n, "start")); err == nil {
			list.Start = start
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		var item []domain.ContentElement
		var err error
		if child.Type == html.ElementNode && classify(child) == tagListItem {
			item, err = w.nested(child)
		} else {
			sub := &elementWalker{converter: w.converter, opts: w.opts}
			err = sub.node(child, domain.TextRun{})
			sub.flush()
			item = sub.blocks
		}
		if err != nil {
			return err
		}
		if len(item) > 0 {
			list.Items = append(list.Items, item)
		}
	}

	if len(list.Items) > 0 {
		w.emit(list)
	}
	return nil
}

func (w *elementWalker) table(n *html.Node) error {
	rows, err := tableRows(n, func(el *html.Node) error {
		return w.converter.unsupported(el, w.opts)
	})
	if err != nil {
		return err
	}

	table := domain.Table{}
	for i, row := range rows {
		texts := make([]string, 0, len(row))
		for _, cell := range row {
			children, err := w.nested(cell)
			if err != nil {
				return err
			}
			texts = append(texts, plainText(children))
		}
		if i == 0 && isHeaderRow(row) {
			table.Header = texts
			continue
		}
		if len(texts) > 0 {
			table.Rows = append(table.Rows, texts)
		}
	}

	if len(table.Header) > 0 || len(table.Rows) > 0 {
		w.emit(table)
	}
	return nil
}

// plainText flattens elements to a single line of text
func plainText(elements []domain.ContentElement) string {
	var parts []string
	for _, el := range elements {
		switch v := el.(type) {
		case domain.Paragraph:
			parts = append(parts, v.Text())
		case domain.Heading:
			parts = append(parts, v.Text)
		case domain.CodeBlock:
			parts = append(parts, v.Code)
		case domain.Image:
			parts = append(parts, v.Alt)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func renderNode(n *html.Node) string {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

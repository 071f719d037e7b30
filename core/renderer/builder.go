package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
)

const (
	maxNestingDepth = 32

	bulletMarker = "• "
	ruleText     = "───"
)

type listFrame struct {
	ordered bool
	counter int
}

// builder walks a goldmark AST and accumulates spans and tap targets.
// Inline styles are counters so nested emphasis unwinds correctly.
type builder struct {
	source []byte
	sheet  domain.Stylesheet
	opts   interfaces.RenderOptions

	spans  []domain.Span
	taps   []domain.TapTarget
	offset int

	bold, italic, strike, underline, sup, sub int

	links     []string
	linkStart []int

	quoteDepth    int
	lists         []listFrame
	itemDepth     int
	pendingBullet string

	headingLevel int
	inTable      bool
	tableHeader  bool
}

func newBuilder(source []byte, sheet domain.Stylesheet, opts interfaces.RenderOptions) *builder {
	return &builder{source: source, sheet: sheet, opts: opts}
}

func (b *builder) result() domain.StyledText {
	return domain.StyledText{Spans: b.spans, Taps: b.taps}
}

// write appends text, merging into the previous span when attributes match
func (b *builder) write(s string, attrs domain.SpanAttributes) {
	if s == "" {
		return
	}
	if n := len(b.spans); n > 0 && b.spans[n-1].Attributes == attrs {
		b.spans[n-1].Text += s
	} else {
		b.spans = append(b.spans, domain.Span{Text: s, Attributes: attrs})
	}
	b.offset += len(s)
}

func (b *builder) endsWithNewline() bool {
	n := len(b.spans)
	return n == 0 || strings.HasSuffix(b.spans[n-1].Text, "\n")
}

// startBlock separates a new block from the previous one and emits a
// pending list bullet
func (b *builder) startBlock() {
	if b.offset > 0 && !b.endsWithNewline() {
		b.write("\n", b.bodyAttributes())
	}
	if b.pendingBullet != "" {
		bullet := b.pendingBullet
		b.pendingBullet = ""
		attrs := b.bodyAttributes()
		attrs.Foreground = b.sheet.List.BulletColor
		b.write(bullet, attrs)
	}
}

func (b *builder) containerBlock() domain.BlockKind {
	switch {
	case b.itemDepth > 0:
		return domain.BlockListItem
	case b.quoteDepth > 0:
		return domain.BlockQuote
	}
	return domain.BlockParagraph
}

func (b *builder) indent() float64 {
	return float64(b.quoteDepth)*b.sheet.Blockquote.Indent + float64(len(b.lists))*b.sheet.List.Indent
}

// bodyAttributes are the block-level attributes before inline styling
func (b *builder) bodyAttributes() domain.SpanAttributes {
	attrs := domain.SpanAttributes{
		FontSize:   b.sheet.Body.FontSize,
		FontWeight: b.sheet.Body.FontWeight,
		Foreground: b.sheet.Body.Color,
		Block:      b.containerBlock(),
		Indent:     b.indent(),
	}
	if b.quoteDepth > 0 {
		if b.sheet.Blockquote.Color != "" {
			attrs.Foreground = b.sheet.Blockquote.Color
		}
		attrs.Italic = b.sheet.Blockquote.Italic
	}

	switch {
	case b.headingLevel > 0:
		h := b.sheet.Heading(b.headingLevel)
		attrs.FontSize = h.FontSize
		attrs.FontWeight = h.FontWeight
		if h.Color != "" {
			attrs.Foreground = h.Color
		}
		attrs.Block = domain.BlockHeading
		attrs.HeadingLevel = b.headingLevel
	case b.inTable:
		attrs.FontSize = b.sheet.Table.FontSize
		attrs.Block = domain.BlockTable
		if b.tableHeader {
			attrs.FontWeight = domain.WeightBold
			if b.sheet.Table.HeaderColor != "" {
				attrs.Foreground = b.sheet.Table.HeaderColor
			}
		}
	}
	return attrs
}

// inlineAttributes applies the inline style counters on top of the block
func (b *builder) inlineAttributes() domain.SpanAttributes {
	attrs := b.bodyAttributes()
	if b.bold > 0 && attrs.FontWeight < domain.WeightBold {
		attrs.FontWeight = domain.WeightBold
	}
	if b.italic > 0 {
		attrs.Italic = true
	}
	if b.strike > 0 {
		attrs.Strikethrough = true
	}
	if b.underline > 0 {
		attrs.Underline = true
	}
	switch {
	case b.sup > b.sub:
		attrs.BaselineOffset = attrs.FontSize / 3
		attrs.FontSize *= 0.75
	case b.sub > b.sup:
		attrs.BaselineOffset = -attrs.FontSize / 4
		attrs.FontSize *= 0.75
	}
	if n := len(b.links); n > 0 && b.links[n-1] != "" {
		attrs.Link = b.links[n-1]
		attrs.Foreground = b.sheet.Link.Color
		attrs.Underline = attrs.Underline || b.sheet.Link.Underline
	}
	return attrs
}

func (b *builder) codeAttributes(style domain.CodeStyle) domain.SpanAttributes {
	attrs := b.inlineAttributes()
	attrs.Monospace = true
	attrs.FontSize = style.FontSize
	attrs.Background = style.Background
	if style.Color != "" && attrs.Link == "" {
		attrs.Foreground = style.Color
	}
	return attrs
}

// pushLink opens a link region. Destinations outside the allowed schemes
// keep their text but get no link styling or tap target.
func (b *builder) pushLink(dest string) {
	if !domain.IsTappableURL(dest) {
		dest = ""
	}
	b.links = append(b.links, dest)
	b.linkStart = append(b.linkStart, b.offset)
}

func (b *builder) popLink() {
	n := len(b.links)
	if n == 0 {
		return
	}
	dest, start := b.links[n-1], b.linkStart[n-1]
	b.links, b.linkStart = b.links[:n-1], b.linkStart[:n-1]
	if dest != "" && b.offset > start {
		b.addTap(domain.TapLink, dest, start)
	}
}

func (b *builder) addTap(kind domain.TapKind, value string, start int) {
	b.taps = append(b.taps, domain.TapTarget{
		Kind:  kind,
		Value: value,
		Range: domain.Range{Start: start, End: b.offset},
	})
}

func (b *builder) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			b.startBlock()
		}

	case ast.KindHeading:
		if entering {
			b.startBlock()
			b.headingLevel = node.(*ast.Heading).Level
		} else {
			b.headingLevel = 0
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			b.codeBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			b.quoteDepth++
			if b.quoteDepth > maxNestingDepth {
				return ast.WalkStop, fmt.Errorf("blockquote nesting exceeds %d", maxNestingDepth)
			}
		} else {
			b.quoteDepth--
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			if len(b.lists) >= maxNestingDepth {
				return ast.WalkStop, fmt.Errorf("list nesting exceeds %d", maxNestingDepth)
			}
			b.lists = append(b.lists, listFrame{ordered: list.IsOrdered(), counter: list.Start})
		} else {
			b.lists = b.lists[:len(b.lists)-1]
		}

	case ast.KindListItem:
		b.listItem(entering)

	case ast.KindThematicBreak:
		if entering {
			b.startBlock()
			attrs := b.bodyAttributes()
			attrs.Block = domain.BlockRule
			attrs.Foreground = b.sheet.HorizontalRule.Color
			b.write(ruleText, attrs)
		}

	case ast.KindHTMLBlock:
		if entering {
			b.htmlBlock(node.(*ast.HTMLBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			b.text(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			b.write(string(node.(*ast.String).Value), b.inlineAttributes())
		}

	case ast.KindEmphasis:
		counter := &b.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &b.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if entering {
			b.write(codeSpanText(node, b.source), b.codeAttributes(b.sheet.InlineCode))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			b.pushLink(string(node.(*ast.Link).Destination))
		} else {
			b.popLink()
		}

	case ast.KindAutoLink:
		if entering {
			b.autoLink(node.(*ast.AutoLink))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindImage:
		if entering {
			b.image(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			b.rawHTML(node.(*ast.RawHTML))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindStrikethrough:
		if entering {
			b.strike++
		} else {
			b.strike--
		}

	case extast.KindTable:
		if entering {
			if err := b.table(node); err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			mark := "☐ "
			if node.(*extast.TaskCheckBox).IsChecked {
				mark = "☑ "
			}
			b.write(mark, b.inlineAttributes())
		}
	}

	return ast.WalkContinue, nil
}

func (b *builder) listItem(entering bool) {
	if !entering {
		b.itemDepth--
		if b.pendingBullet != "" {
			// empty item: still show its bullet
			b.startBlock()
		}
		return
	}

	b.itemDepth++
	if len(b.lists) == 0 {
		return
	}
	top := &b.lists[len(b.lists)-1]
	if top.ordered {
		b.pendingBullet = strconv.Itoa(top.counter) + ". "
		top.counter++
	} else {
		b.pendingBullet = bulletMarker
	}
}

func (b *builder) text(node *ast.Text) {
	value := node.Segment.Value(b.source)
	if !node.IsRaw() {
		value = unescapeText(value)
	}
	attrs := b.inlineAttributes()
	b.write(string(value), attrs)
	if node.SoftLineBreak() || node.HardLineBreak() {
		b.write("\n", attrs)
	}
}

// unescapeText resolves backslash escapes and entity references in a
// single pass, so an escaped \& never starts an entity
func unescapeText(value []byte) []byte {
	out := make([]byte, 0, len(value))
	chunk := 0
	resolve := func(end int) {
		part := util.ResolveNumericReferences(value[chunk:end])
		out = append(out, util.ResolveEntityNames(part)...)
	}
	for i := 0; i < len(value); i++ {
		if value[i] != '\\' || i+1 >= len(value) || !util.IsPunct(value[i+1]) {
			continue
		}
		resolve(i)
		out = append(out, value[i+1])
		i++
		chunk = i + 1
	}
	resolve(len(value))
	return out
}

func (b *builder) autoLink(node *ast.AutoLink) {
	url := string(node.URL(b.source))
	label := string(node.Label(b.source))
	if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
		url = "mailto:" + url
	}
	b.pushLink(url)
	b.write(label, b.inlineAttributes())
	b.popLink()
}

func (b *builder) image(node *ast.Image) {
	dest := string(node.Destination)
	alt := inlineText(node, b.source)

	if !b.opts.EnableImages || !domain.IsImageURL(dest) {
		b.pushLink(dest)
		b.write("[Image: "+alt+"]", b.inlineAttributes())
		b.popLink()
		return
	}

	attrs := b.bodyAttributes()
	attrs.Block = domain.BlockAttachment
	attrs.ImageURL = dest
	attrs.ImageAlt = alt
	if n := len(b.links); n > 0 {
		attrs.Link = b.links[n-1]
	}
	start := b.offset
	b.write(domain.AttachmentCharacter, attrs)
	b.addTap(domain.TapImage, dest, start)
}

func (b *builder) codeBlock(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(b.source))
	}
	content := strings.TrimRight(code.String(), "\n")

	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(b.source))
	}

	b.startBlock()
	attrs := b.bodyAttributes()
	attrs.Block = domain.BlockCode
	attrs.Monospace = true
	attrs.FontSize = b.sheet.CodeBlock.FontSize
	attrs.Background = b.sheet.CodeBlock.Background
	if b.sheet.CodeBlock.Color != "" {
		attrs.Foreground = b.sheet.CodeBlock.Color
	}

	if b.opts.EnableCodeHighlighting && lang != "" {
		if tokens, ok := highlight(content, lang, b.sheet.CodeBlock.HighlightTheme); ok {
			for _, tok := range tokens {
				tokAttrs := attrs
				if tok.color != "" {
					tokAttrs.Foreground = tok.color
				}
				if tok.bold {
					tokAttrs.FontWeight = domain.WeightBold
				}
				tokAttrs.Italic = tokAttrs.Italic || tok.italic
				b.write(tok.text, tokAttrs)
			}
			return
		}
	}
	b.write(content, attrs)
}

// htmlBlock shows block-level HTML as literal text
func (b *builder) htmlBlock(node *ast.HTMLBlock) {
	var raw strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		raw.Write(segment.Value(b.source))
	}
	content := strings.TrimRight(raw.String(), "\n")
	if content == "" {
		return
	}
	b.startBlock()
	b.write(content, b.bodyAttributes())
}

// rawHTML toggles attributes for the recognized inline tags and shows
// anything else as literal text
func (b *builder) rawHTML(node *ast.RawHTML) {
	var raw strings.Builder
	for i := 0; i < node.Segments.Len(); i++ {
		segment := node.Segments.At(i)
		raw.Write(segment.Value(b.source))
	}
	tag := strings.ToLower(strings.TrimSpace(raw.String()))

	switch tag {
	case "<u>", "<ins>":
		b.underline++
	case "</u>", "</ins>":
		b.underline = decrement(b.underline)
	case "<sup>":
		b.sup++
	case "</sup>":
		b.sup = decrement(b.sup)
	case "<sub>":
		b.sub++
	case "</sub>":
		b.sub = decrement(b.sub)
	case "<b>", "<strong>":
		b.bold++
	case "</b>", "</strong>":
		b.bold = decrement(b.bold)
	case "<i>", "<em>":
		b.italic++
	case "</i>", "</em>":
		b.italic = decrement(b.italic)
	case "<s>", "<del>", "<strike>":
		b.strike++
	case "</s>", "</del>", "</strike>":
		b.strike = decrement(b.strike)
	case "<br>", "<br/>", "<br />":
		b.write("\n", b.inlineAttributes())
	default:
		b.write(raw.String(), b.inlineAttributes())
	}
}

func decrement(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}

// table renders rows as tab-separated lines with a bold header
func (b *builder) table(node ast.Node) error {
	b.startBlock()
	b.inTable = true
	defer func() {
		b.inTable = false
		b.tableHeader = false
	}()

	first := true
	for row := node.FirstChild(); row != nil; row = row.NextSibling() {
		if !first {
			b.write("\n", b.bodyAttributes())
		}
		first = false
		b.tableHeader = row.Kind() == extast.KindTableHeader

		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell != row.FirstChild() {
				b.write("\t", b.bodyAttributes())
			}
			for child := cell.FirstChild(); child != nil; child = child.NextSibling() {
				if err := ast.Walk(child, b.walk); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func codeSpanText(node ast.Node, source []byte) string {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			code.Write(c.Segment.Value(source))
		case *ast.String:
			code.Write(c.Value)
		}
	}
	return code.String()
}

// inlineText flattens a node's inline children to plain text
func inlineText(node ast.Node, source []byte) string {
	var out strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := n.(type) {
		case *ast.Text:
			out.Write(unescapeText(c.Segment.Value(source)))
		case *ast.String:
			out.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return out.String()
}

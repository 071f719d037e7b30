package converter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// boundaryRune stands in for output outside the current sibling run. It is
// a letter, the neighbour that constrains delimiter flanking the most.
const boundaryRune = 'a'

type emphasisForm struct {
	marker      string
	open, close string
}

var emphasisForms = map[tagClass]emphasisForm{
	tagStrong:   {marker: "**", open: "<b>", close: "</b>"},
	tagEmphasis: {marker: "*", open: "<i>", close: "</i>"},
	tagStrike:   {marker: "~~", open: "<s>", close: "</s>"},
}

// inlinePiece is one rendered child. Bold, italic and strikethrough
// children keep their content split from surrounding whitespace and get
// their markers in joinPieces.
type inlinePiece struct {
	text string

	class             tagClass
	lead, core, trail string
}

func (p inlinePiece) formatted() bool {
	return p.core != ""
}

func delimited(class tagClass, inner string) inlinePiece {
	lead, core, trail := splitSpace(inner)
	if core == "" {
		return inlinePiece{text: inner}
	}
	return inlinePiece{class: class, lead: lead, core: core, trail: trail}
}

// appendPiece merges p into a directly preceding piece of the same class
func appendPiece(out []inlinePiece, p inlinePiece) []inlinePiece {
	if n := len(out); n > 0 && p.formatted() {
		last := &out[n-1]
		if last.formatted() && last.class == p.class && last.trail == "" && p.lead == "" &&
			!strings.ContainsAny(lastChar(last.core), "*~>") && !strings.ContainsAny(firstChar(p.core), "*~<") {
			last.core += p.core
			last.trail = p.trail
			return out
		}
	}
	return append(out, p)
}

func joinPieces(pieces []inlinePiece) string {
	var b strings.Builder
	for i, p := range pieces {
		if !p.formatted() {
			b.WriteString(p.text)
			continue
		}
		b.WriteString(p.lead)
		prev := rune(boundaryRune)
		if b.Len() > 0 {
			prev, _ = utf8.DecodeLastRuneInString(b.String())
		}
		b.WriteString(p.render(prev, nextRune(pieces, i)))
		b.WriteString(p.trail)
	}
	return b.String()
}

// nextRune returns the first character written after piece i. A following
// formatted piece starts with a marker or an HTML tag, both punctuation.
func nextRune(pieces []inlinePiece, i int) rune {
	if t := pieces[i].trail; t != "" {
		r, _ := utf8.DecodeRuneInString(t)
		return r
	}
	for _, q := range pieces[i+1:] {
		switch {
		case q.formatted() && q.lead != "":
			r, _ := utf8.DecodeRuneInString(q.lead)
			return r
		case q.formatted():
			return '<'
		case q.text != "":
			r, _ := utf8.DecodeRuneInString(q.text)
			return r
		}
	}
	return boundaryRune
}

// render uses Markdown delimiters when they would open and close under
// CommonMark flanking rules, and the inline HTML tag otherwise
func (p inlinePiece) render(prev, next rune) string {
	form := emphasisForms[p.class]
	delim := rune(form.marker[0])
	first, _ := utf8.DecodeRuneInString(p.core)
	last, _ := utf8.DecodeLastRuneInString(p.core)

	ok := prev != delim && next != delim && first != delim && last != delim &&
		!unicode.IsSpace(first) && !unicode.IsSpace(last) &&
		(!isPunct(first) || unicode.IsSpace(prev) || isPunct(prev)) &&
		(!isPunct(last) || unicode.IsSpace(next) || isPunct(next))
	if ok {
		return form.marker + p.core + form.marker
	}
	return form.open + p.core + form.close
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func firstChar(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

func lastChar(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[len(s)-size:]
}

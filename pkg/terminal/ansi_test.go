package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"v2ex-richview/core/domain"
)

func sample() domain.StyledText {
	return domain.StyledText{Spans: []domain.Span{
		{Text: "Hello ", Attributes: domain.SpanAttributes{FontWeight: domain.WeightRegular}},
		{Text: "World", Attributes: domain.SpanAttributes{FontWeight: domain.WeightBold, Foreground: "#FF0000FF"}},
		{Text: "\n"},
		{Text: domain.AttachmentCharacter, Attributes: domain.SpanAttributes{ImageURL: "https://i.v2ex.co/a.png", ImageAlt: "cat"}},
	}}
}

func TestPrinter_RenderASCII(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, termenv.Ascii)

	assert.Equal(t, "Hello World\n[image: cat]", p.Render(sample()))
}

func TestPrinter_RenderANSI(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, termenv.ANSI256)

	out := p.Render(sample())

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "World")
	assert.Equal(t, 1, strings.Count(out, "\n"), "line breaks are not padded or duplicated")
}

func TestPrinter_ImagePlaceholderFallsBackToURL(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, termenv.Ascii)
	st := domain.StyledText{Spans: []domain.Span{
		{Text: domain.AttachmentCharacter, Attributes: domain.SpanAttributes{ImageURL: "https://i.v2ex.co/b.png"}},
	}}

	assert.Equal(t, "[image: https://i.v2ex.co/b.png]", p.Render(st))
}

func TestTerminalColor(t *testing.T) {
	tests := []struct {
		in   domain.Color
		want string
		ok   bool
	}{
		{"#112233", "#112233", true},
		{"#112233AA", "#112233", true},
		{"", "", false},
		{"red", "", false},
	}
	for _, tt := range tests {
		got, ok := terminalColor(tt.in)
		assert.Equal(t, tt.ok, ok, string(tt.in))
		assert.Equal(t, tt.want, string(got), string(tt.in))
	}
}

// ABOUTME: ANSI terminal preview of styled text using lipgloss
// ABOUTME: Maps span attributes onto terminal styles for the CLI render command

// Package terminal prints domain.StyledText to a terminal. Font sizes and
// spacing have no terminal equivalent and are ignored; weight, slant,
// decoration and colors are kept.
package terminal

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"v2ex-richview/core/domain"
)

// Printer renders styled text with a fixed color profile
type Printer struct {
	renderer *lipgloss.Renderer
}

// NewPrinter creates a printer for out. The profile is set explicitly
// because lipgloss otherwise re-detects it from the environment.
func NewPrinter(out io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(out, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return &Printer{renderer: r}
}

// DetectProfile returns the color profile out supports, honoring NO_COLOR
// and CLICOLOR_FORCE
func DetectProfile(out io.Writer) termenv.Profile {
	return termenv.NewOutput(out).EnvColorProfile()
}

// Render returns st as a string with ANSI escape sequences
func (p *Printer) Render(st domain.StyledText) string {
	var b strings.Builder
	for _, span := range st.Spans {
		text := span.Text
		if span.Attributes.ImageURL != "" && text == domain.AttachmentCharacter {
			text = imagePlaceholder(span.Attributes)
		}
		style := p.style(span.Attributes)

		// lipgloss pads multi-line blocks to equal width, so style
		// each line on its own
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return b.String()
}

func (p *Printer) style(a domain.SpanAttributes) lipgloss.Style {
	s := p.renderer.NewStyle()
	if a.FontWeight >= domain.WeightSemibold {
		s = s.Bold(true)
	}
	if a.Italic {
		s = s.Italic(true)
	}
	if a.Underline || a.Link != "" {
		s = s.Underline(true)
	}
	if a.Strikethrough {
		s = s.Strikethrough(true)
	}
	if c, ok := terminalColor(a.Foreground); ok {
		s = s.Foreground(c)
	}
	if c, ok := terminalColor(a.Background); ok {
		s = s.Background(c)
	}
	return s
}

// terminalColor drops the alpha channel of "#RRGGBBAA"; terminals have no
// transparency
func terminalColor(c domain.Color) (lipgloss.Color, bool) {
	hex := string(c)
	switch {
	case len(hex) == 7 && hex[0] == '#':
		return lipgloss.Color(hex), true
	case len(hex) == 9 && hex[0] == '#':
		return lipgloss.Color(hex[:7]), true
	}
	return "", false
}

func imagePlaceholder(a domain.SpanAttributes) string {
	label := a.ImageAlt
	if label == "" {
		label = a.ImageURL
	}
	return "[image: " + label + "]"
}

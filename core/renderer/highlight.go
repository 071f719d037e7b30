package renderer

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"v2ex-richview/core/domain"
)

type codeToken struct {
	text   string
	color  domain.Color
	bold   bool
	italic bool
}

// highlight splits code into colored tokens using the chroma lexer for
// lang and the named theme. It reports false for unknown languages or
// when the token stream does not reproduce code exactly.
func highlight(code, lang, theme string) ([]codeToken, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return nil, false
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, false
	}

	var tokens []codeToken
	remaining := code
	for _, tok := range iterator.Tokens() {
		if remaining == "" {
			break
		}
		value := tok.Value
		if len(value) > len(remaining) {
			// lexers may append a trailing newline
			value = value[:len(remaining)]
		}
		if !strings.HasPrefix(remaining, value) {
			return nil, false
		}
		remaining = remaining[len(value):]

		entry := style.Get(tok.Type)
		t := codeToken{
			text:   value,
			bold:   entry.Bold == chroma.Yes,
			italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			t.color = domain.Color(entry.Colour.String())
		}
		tokens = append(tokens, t)
	}
	if remaining != "" {
		return nil, false
	}
	return tokens, true
}

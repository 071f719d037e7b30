package converter

import (
	"regexp"
	"strings"
)

var (
	// Text was already decoded by the HTML parser, so < and & are escaped
	// to keep them from reading as inline HTML or entity references
	textEscaper = strings.NewReplacer(
		`\`, `\\`,
		`*`, `\*`,
		`_`, `\_`,
		`[`, `\[`,
		`]`, `\]`,
		`~`, `\~`,
		`<`, `\<`,
		`&`, `\&`,
	)
	pipeEscaper = strings.NewReplacer(`|`, `\|`)
	urlEscaper  = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29")

	excessNewlines = regexp.MustCompile(`\n{3,}`)
	newlineRuns    = regexp.MustCompile(`\n+`)
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeURL(s string) string {
	return urlEscaper.Replace(s)
}

// finalize collapses runs of three or more newlines and trims the result
func finalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// longestRun returns the length of the longest run of c in s
func longestRun(s string, c byte) int {
	longest, current := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

// inlineCode fences code with one more backtick than its longest run
func inlineCode(code string) string {
	code = strings.ReplaceAll(code, "\n", " ")
	if strings.TrimSpace(code) == "" {
		return ""
	}
	fence := strings.Repeat("`", longestRun(code, '`')+1)
	if strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") {
		code = " " + code + " "
	}
	return fence + code + fence
}

// codeFence returns a fence of at least three backticks that does not
// occur inside code
func codeFence(code string) string {
	n := longestRun(code, '`') + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}

// splitSpace separates leading and trailing whitespace from s
func splitSpace(s string) (lead, core, trail string) {
	core = strings.TrimLeft(s, " \t\n")
	lead = s[:len(s)-len(core)]
	trimmed := strings.TrimRight(core, " \t\n")
	trail = core[len(trimmed):]
	return lead, trimmed, trail
}

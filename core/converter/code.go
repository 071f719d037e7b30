package converter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"v2ex-richview/core/interfaces"
	"v2ex-richview/core/language"
)

// checkSubtree applies the tag policy to every element below n. The
// subtree of a degraded element is not inspected further.
func (c *Converter) checkSubtree(n *html.Node, opts interfaces.ConvertOptions) error {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if classify(child) == tagUnsupported {
			if err := c.unsupported(child, opts); err != nil {
				return err
			}
			continue
		}
		if err := c.checkSubtree(child, opts); err != nil {
			return err
		}
	}
	return nil
}

// textContent collects the raw text under n. br becomes a newline, script
// and style bodies are dropped and other element tags are ignored.
func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				b.WriteString("\n")
				return
			}
			if silentTags[n.DataAtom] {
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				collect(c)
			}
		}
	}
	collect(n)
	return b.String()
}

// preCode returns the code inside a pre element with the trailing
// newlines removed
func preCode(n *html.Node) string {
	code := strings.ReplaceAll(textContent(n), "\r\n", "\n")
	code = strings.TrimPrefix(code, "\n")
	return strings.TrimRight(code, "\n")
}

// codeLanguage resolves the fence language for a pre element: a language
// class on the pre or its first code child, then detection, then none
func (c *Converter) codeLanguage(pre *html.Node, code string) string {
	sel := goquery.NewDocumentFromNode(pre).Selection
	if lang := classLanguage(sel.AttrOr("class", "")); lang != "" {
		return lang
	}
	if lang := classLanguage(sel.Find("code").First().AttrOr("class", "")); lang != "" {
		return lang
	}
	if lang, ok := c.detector.Detect(code); ok {
		return lang
	}
	return ""
}

func classLanguage(class string) string {
	for _, part := range strings.Fields(strings.ToLower(class)) {
		switch {
		case strings.HasPrefix(part, "language-"):
			return infoString(strings.TrimPrefix(part, "language-"))
		case strings.HasPrefix(part, "lang-"):
			return infoString(strings.TrimPrefix(part, "lang-"))
		case language.IsKnown(part):
			return language.Normalize(part)
		}
	}
	return ""
}

// infoString keeps the characters that are safe in a fence info string
func infoString(lang string) string {
	lang = language.Normalize(lang)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '+' || r == '#' || r == '-' || r == '_' || r == '.':
			return r
		}
		return -1
	}, lang)
}

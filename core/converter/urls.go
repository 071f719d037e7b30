package converter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rewriteURLs makes protocol-relative and site-root-relative href/src
// attributes absolute against base
func rewriteURLs(doc *goquery.Document, base string) {
	doc.Find("[href], [src]").Each(func(_ int, s *goquery.Selection) {
		for _, key := range []string{"href", "src"} {
			if v, ok := s.Attr(key); ok {
				s.SetAttr(key, absoluteURL(strings.TrimSpace(v), base))
			}
		}
	})
}

func absoluteURL(raw, base string) string {
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return base + raw
	}
	return raw
}

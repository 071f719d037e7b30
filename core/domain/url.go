// ABOUTME: Scheme allow-lists for link and image targets
// ABOUTME: Only web and mail URLs become tappable regions or image attachments

package domain

import (
	"net/url"
	"strings"
)

var (
	linkSchemes  = map[string]bool{"http": true, "https": true, "mailto": true}
	imageSchemes = map[string]bool{"http": true, "https": true}
)

// IsTappableURL reports whether raw may be activated as a link
func IsTappableURL(raw string) bool {
	return hasScheme(raw, linkSchemes)
}

// IsImageURL reports whether raw may be loaded as an image
func IsImageURL(raw string) bool {
	return hasScheme(raw, imageSchemes)
}

func hasScheme(raw string, allowed map[string]bool) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return allowed[strings.ToLower(u.Scheme)]
}

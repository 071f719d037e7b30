// ABOUTME: RenderConfiguration domain model bundles the recognized rendering options
// ABOUTME: Comparable value type; part of it feeds cache and single-flight keys

package domain

import (
	"fmt"
	"strings"
)

// ImageQuality is the requested fidelity for image loads
type ImageQuality int

const (
	ImageQualityLow ImageQuality = iota
	ImageQualityMedium
	ImageQualityHigh
	ImageQualityOriginal
)

var imageQualityNames = [...]string{"low", "medium", "high", "original"}

func (q ImageQuality) String() string {
	if q < 0 || int(q) >= len(imageQualityNames) {
		return fmt.Sprintf("ImageQuality(%d)", int(q))
	}
	return imageQualityNames[q]
}

// ParseImageQuality parses one of low, medium, high, original
func ParseImageQuality(s string) (ImageQuality, error) {
	for i, name := range imageQualityNames {
		if strings.EqualFold(s, name) {
			return ImageQuality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown image quality %q", s)
}

// TagPolicy decides what the converter does with tags outside the allow-list
type TagPolicy int

const (
	// TagPolicyStrict fails the conversion on the first unsupported tag
	TagPolicyStrict TagPolicy = iota

	// TagPolicyLenient degrades unsupported elements to their text content
	TagPolicyLenient
)

func (p TagPolicy) String() string {
	if p == TagPolicyLenient {
		return "lenient"
	}
	return "strict"
}

// ParseTagPolicy parses "strict" or "lenient"
func ParseTagPolicy(s string) (TagPolicy, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return TagPolicyStrict, nil
	case "lenient":
		return TagPolicyLenient, nil
	}
	return TagPolicyStrict, fmt.Errorf("unknown tag policy %q", s)
}

// DefaultBaseURL is the canonical forum host used to absolutize URLs
const DefaultBaseURL = "https://www.v2ex.com"

// RenderConfiguration is the option bundle chosen by the presentation layer
type RenderConfiguration struct {
	Stylesheet             Stylesheet
	EnableImages           bool
	EnableCodeHighlighting bool

	// CrashOnUnsupportedTags is a development aid. It forces the strict
	// policy and escalates the log level; it never aborts the process.
	CrashOnUnsupportedTags bool

	EnableCaching bool

	// MaxCacheSize is an advisory budget in megabytes
	MaxCacheSize int

	ImageQuality            ImageQuality
	MaxConcurrentImageLoads int

	TagPolicy TagPolicy

	// BaseURL absolutizes protocol- and site-relative URLs.
	// Empty means DefaultBaseURL.
	BaseURL string
}

// DefaultConfiguration is the profile for topic bodies
func DefaultConfiguration() RenderConfiguration {
	return RenderConfiguration{
		Stylesheet:              DefaultStylesheet(),
		EnableImages:            true,
		EnableCodeHighlighting:  true,
		EnableCaching:           true,
		MaxCacheSize:            100,
		ImageQuality:            ImageQualityHigh,
		MaxConcurrentImageLoads: 4,
		TagPolicy:               TagPolicyStrict,
		BaseURL:                 DefaultBaseURL,
	}
}

// CompactConfiguration is the profile for replies
func CompactConfiguration() RenderConfiguration {
	cfg := DefaultConfiguration()
	cfg.Stylesheet = CompactStylesheet()
	cfg.EnableCodeHighlighting = false
	cfg.MaxCacheSize = 50
	cfg.ImageQuality = ImageQualityMedium
	cfg.MaxConcurrentImageLoads = 2
	return cfg
}

// EffectivePolicy returns the tag policy after applying CrashOnUnsupportedTags
func (c RenderConfiguration) EffectivePolicy() TagPolicy {
	if c.CrashOnUnsupportedTags {
		return TagPolicyStrict
	}
	return c.TagPolicy
}

// EffectiveBaseURL returns BaseURL or DefaultBaseURL when unset
func (c RenderConfiguration) EffectiveBaseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

// Validate checks option ranges
func (c RenderConfiguration) Validate() error {
	if c.MaxCacheSize < 0 {
		return fmt.Errorf("max cache size cannot be negative")
	}
	if c.MaxConcurrentImageLoads < 0 {
		return fmt.Errorf("max concurrent image loads cannot be negative")
	}
	if c.ImageQuality < ImageQualityLow || c.ImageQuality > ImageQualityOriginal {
		return fmt.Errorf("invalid image quality %d", int(c.ImageQuality))
	}
	if c.TagPolicy != TagPolicyStrict && c.TagPolicy != TagPolicyLenient {
		return fmt.Errorf("invalid tag policy %d", int(c.TagPolicy))
	}
	return nil
}

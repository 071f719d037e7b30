// ABOUTME: Heuristic programming-language detection for code snippets
// ABOUTME: Evaluates an ordered rule table of lexical markers; first match wins

// Package language classifies code snippets from lexical cues. Detection is
// best-effort: ambiguous snippets can be misclassified (C reported as C++
// is the common case) and callers must treat the result as a hint.
package language

import (
	"sort"
	"strings"
)

// Detector is stateless and safe for concurrent use
type Detector struct{}

// NewDetector creates a detector over the built-in rule table
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the first language whose rules match code
func (d *Detector) Detect(code string) (string, bool) {
	if strings.TrimSpace(code) == "" {
		return "", false
	}
	for _, rs := range rulesets {
		for _, r := range rs.rules {
			if r.matches(code) {
				return rs.language, true
			}
		}
	}
	return "", false
}

func (r rule) matches(code string) bool {
	for _, marker := range r.all {
		if !strings.Contains(code, marker) {
			return false
		}
	}
	if len(r.any) == 0 {
		return len(r.all) > 0
	}
	for _, marker := range r.any {
		if strings.Contains(code, marker) {
			return true
		}
	}
	return false
}

// DisplayName returns the human-readable name of a language tag,
// or the uppercased tag when it is not in the table
func DisplayName(tag string) string {
	if name, ok := displayNames[Normalize(tag)]; ok {
		return name
	}
	return strings.ToUpper(tag)
}

// Normalize maps a class-attribute spelling ("js", "c++", "golang") to
// the detector's tag. Unknown spellings are returned lowercased.
func Normalize(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if alias, ok := aliases[tag]; ok {
		return alias
	}
	return tag
}

// IsKnown reports whether tag (after normalization) is in the table
func IsKnown(tag string) bool {
	_, ok := displayNames[Normalize(tag)]
	return ok
}

// Languages lists every tag the detector can return, sorted
func Languages() []string {
	out := make([]string, 0, len(rulesets))
	for _, rs := range rulesets {
		out = append(out, rs.language)
	}
	sort.Strings(out)
	return out
}

// ABOUTME: Mention domain model describes one @username occurrence in a string
// ABOUTME: Ranges are byte offsets into the exact string they were computed from

package domain

// Range is a half-open [Start, End) byte interval
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset falls inside the range
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps reports whether the two ranges share at least one byte
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Mention is an @username occurrence. The range is invalidated if the
// source string changes.
type Mention struct {
	// FullText is the matched token including the leading '@'
	FullText string `json:"fullText"`

	// Username is the name without the '@'
	Username string `json:"username"`

	Range Range `json:"range"`
}

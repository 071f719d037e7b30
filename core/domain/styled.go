// ABOUTME: StyledText domain model is the native rich-text structure for display widgets
// ABOUTME: Runs of text with attributes plus the tappable regions computed by the renderer

package domain

import "strings"

// BlockKind tags the block a span belongs to
type BlockKind string

const (
	BlockParagraph  BlockKind = "paragraph"
	BlockHeading    BlockKind = "heading"
	BlockCode       BlockKind = "code"
	BlockQuote      BlockKind = "quote"
	BlockListItem   BlockKind = "list_item"
	BlockTable      BlockKind = "table"
	BlockRule       BlockKind = "rule"
	BlockAttachment BlockKind = "attachment"
)

// AttachmentCharacter stands in for a natively composited image
const AttachmentCharacter = "\uFFFC"

// SpanAttributes describes how a span is drawn
type SpanAttributes struct {
	FontSize       float64    `json:"fontSize"`
	FontWeight     FontWeight `json:"fontWeight"`
	Italic         bool       `json:"italic,omitempty"`
	Monospace      bool       `json:"monospace,omitempty"`
	Foreground     Color      `json:"foreground,omitempty"`
	Background     Color      `json:"background,omitempty"`
	Underline      bool       `json:"underline,omitempty"`
	Strikethrough  bool       `json:"strikethrough,omitempty"`
	BaselineOffset float64    `json:"baselineOffset,omitempty"`
	Indent         float64    `json:"indent,omitempty"`
	Block          BlockKind  `json:"block,omitempty"`
	HeadingLevel   int        `json:"headingLevel,omitempty"`
	Link           string     `json:"link,omitempty"`
	Mention        string     `json:"mention,omitempty"`
	ImageURL       string     `json:"imageURL,omitempty"`
	ImageAlt       string     `json:"imageAlt,omitempty"`
}

// Span is a run of text with uniform attributes
type Span struct {
	Text       string         `json:"text"`
	Attributes SpanAttributes `json:"attributes"`
}

// TapKind identifies what a tappable region activates
type TapKind string

const (
	TapLink    TapKind = "link"
	TapImage   TapKind = "image"
	TapMention TapKind = "mention"
)

// TapTarget is a tappable region in the plain text of a StyledText.
// Value is a URL for links and images and a username for mentions.
type TapTarget struct {
	Kind  TapKind `json:"kind"`
	Value string  `json:"value"`
	Range Range   `json:"range"`
}

// StyledText is the renderer output. Treat values as immutable; they are
// shared between cache readers.
type StyledText struct {
	Spans []Span      `json:"spans"`
	Taps  []TapTarget `json:"taps,omitempty"`
}

// PlainText concatenates every span's text. Tap ranges index into it.
func (s StyledText) PlainText() string {
	var b strings.Builder
	for _, span := range s.Spans {
		b.WriteString(span.Text)
	}
	return b.String()
}

// Len returns the byte length of PlainText
func (s StyledText) Len() int {
	n := 0
	for _, span := range s.Spans {
		n += len(span.Text)
	}
	return n
}

// IsEmpty reports whether there is nothing to display
func (s StyledText) IsEmpty() bool {
	return s.Len() == 0
}

// TargetAt returns the innermost tap target containing offset.
// Mentions take precedence, then images, then links.
func (s StyledText) TargetAt(offset int) (TapTarget, bool) {
	var found TapTarget
	ok := false
	for _, tap := range s.Taps {
		if !tap.Range.Contains(offset) {
			continue
		}
		if !ok || tapPriority(tap.Kind) > tapPriority(found.Kind) {
			found = tap
			ok = true
		}
	}
	return found, ok
}

// TargetsOfKind returns the tap targets of one kind in order
func (s StyledText) TargetsOfKind(kind TapKind) []TapTarget {
	var out []TapTarget
	for _, tap := range s.Taps {
		if tap.Kind == kind {
			out = append(out, tap)
		}
	}
	return out
}

// Clone returns a copy that shares no slices with s
func (s StyledText) Clone() StyledText {
	out := StyledText{}
	if s.Spans != nil {
		out.Spans = make([]Span, len(s.Spans))
		copy(out.Spans, s.Spans)
	}
	if s.Taps != nil {
		out.Taps = make([]TapTarget, len(s.Taps))
		copy(out.Taps, s.Taps)
	}
	return out
}

func tapPriority(kind TapKind) int {
	switch kind {
	case TapMention:
		return 3
	case TapImage:
		return 2
	case TapLink:
		return 1
	}
	return 0
}

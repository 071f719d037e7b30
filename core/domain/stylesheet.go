// ABOUTME: Stylesheet domain model holds per-element visual attributes for rendering
// ABOUTME: Colors and sizes are abstract values resolved by the presentation layer

package domain

// Color is an abstract color value, "#RRGGBB" or "#RRGGBBAA".
// An empty Color means "inherit".
type Color string

// FontWeight is an abstract font weight
type FontWeight int

const (
	WeightRegular  FontWeight = 400
	WeightMedium   FontWeight = 500
	WeightSemibold FontWeight = 600
	WeightBold     FontWeight = 700
)

// TextStyle is the common bundle shared by most element categories
type TextStyle struct {
	FontSize         float64    `json:"fontSize"`
	FontWeight       FontWeight `json:"fontWeight"`
	Color            Color      `json:"color,omitempty"`
	LineSpacing      float64    `json:"lineSpacing,omitempty"`
	ParagraphSpacing float64    `json:"paragraphSpacing,omitempty"`
}

// HeadingStyle styles one heading level
type HeadingStyle struct {
	TextStyle
	TopSpacing float64 `json:"topSpacing,omitempty"`
}

// LinkStyle styles link runs
type LinkStyle struct {
	Color     Color `json:"color"`
	Underline bool  `json:"underline"`
}

// CodeStyle styles inline code and code blocks.
// HighlightTheme names a token coloring theme for code blocks.
type CodeStyle struct {
	FontSize       float64 `json:"fontSize"`
	Color          Color   `json:"color,omitempty"`
	Background     Color   `json:"background,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
	HighlightTheme string  `json:"highlightTheme,omitempty"`
}

// BlockquoteStyle styles quoted blocks
type BlockquoteStyle struct {
	Color       Color   `json:"color,omitempty"`
	BorderColor Color   `json:"borderColor,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
	Indent      float64 `json:"indent"`
	Italic      bool    `json:"italic"`
}

// ListStyle styles list items
type ListStyle struct {
	Indent      float64 `json:"indent"`
	BulletColor Color   `json:"bulletColor,omitempty"`
	ItemSpacing float64 `json:"itemSpacing,omitempty"`
}

// MentionStyle styles @username runs
type MentionStyle struct {
	Color      Color      `json:"color"`
	Background Color      `json:"background,omitempty"`
	FontWeight FontWeight `json:"fontWeight"`
}

// ImageStyle bounds image attachments
type ImageStyle struct {
	MaxWidth     float64 `json:"maxWidth,omitempty"`
	MaxHeight    float64 `json:"maxHeight,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// TableStyle styles table cells
type TableStyle struct {
	FontSize    float64 `json:"fontSize"`
	HeaderColor Color   `json:"headerColor,omitempty"`
	BorderColor Color   `json:"borderColor,omitempty"`
	CellPadding float64 `json:"cellPadding,omitempty"`
}

// RuleStyle styles horizontal rules
type RuleStyle struct {
	Color     Color   `json:"color,omitempty"`
	Thickness float64 `json:"thickness"`
}

// Stylesheet bundles one style per element category. It is a value
// type and is comparable with ==.
type Stylesheet struct {
	Body           TextStyle       `json:"body"`
	Headings       [6]HeadingStyle `json:"headings"`
	Link           LinkStyle       `json:"link"`
	InlineCode     CodeStyle       `json:"inlineCode"`
	CodeBlock      CodeStyle       `json:"codeBlock"`
	Blockquote     BlockquoteStyle `json:"blockquote"`
	List           ListStyle       `json:"list"`
	Mention        MentionStyle    `json:"mention"`
	Image          ImageStyle      `json:"image"`
	Table          TableStyle      `json:"table"`
	HorizontalRule RuleStyle       `json:"horizontalRule"`
}

// Heading returns the style for a heading level, clamped to 1..6
func (s Stylesheet) Heading(level int) HeadingStyle {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return s.Headings[level-1]
}

// DefaultStylesheet is used for topic bodies
func DefaultStylesheet() Stylesheet {
	body := TextStyle{FontSize: 16, FontWeight: WeightRegular, Color: "#1F2328", LineSpacing: 4, ParagraphSpacing: 12}
	return Stylesheet{
		Body: body,
		Headings: [6]HeadingStyle{
			{TextStyle: TextStyle{FontSize: 28, FontWeight: WeightBold, Color: body.Color, ParagraphSpacing: 12}, TopSpacing: 16},
			{TextStyle: TextStyle{FontSize: 24, FontWeight: WeightBold, Color: body.Color, ParagraphSpacing: 10}, TopSpacing: 14},
			{TextStyle: TextStyle{FontSize: 20, FontWeight: WeightSemibold, Color: body.Color, ParagraphSpacing: 8}, TopSpacing: 12},
			{TextStyle: TextStyle{FontSize: 18, FontWeight: WeightSemibold, Color: body.Color, ParagraphSpacing: 8}, TopSpacing: 10},
			{TextStyle: TextStyle{FontSize: 16, FontWeight: WeightSemibold, Color: body.Color, ParagraphSpacing: 6}, TopSpacing: 8},
			{TextStyle: TextStyle{FontSize: 15, FontWeight: WeightSemibold, Color: "#59636E", ParagraphSpacing: 6}, TopSpacing: 8},
		},
		Link:           LinkStyle{Color: "#0969DA", Underline: false},
		InlineCode:     CodeStyle{FontSize: 14, Color: "#CF222E", Background: "#EFF1F3"},
		CodeBlock:      CodeStyle{FontSize: 13, Color: "#1F2328", Background: "#F6F8FA", Padding: 12, HighlightTheme: "github"},
		Blockquote:     BlockquoteStyle{Color: "#59636E", BorderColor: "#D1D9E0", BorderWidth: 3, Indent: 12},
		List:           ListStyle{Indent: 20, BulletColor: "#59636E", ItemSpacing: 4},
		Mention:        MentionStyle{Color: "#0969DA", FontWeight: WeightSemibold},
		Image:          ImageStyle{MaxWidth: 0, MaxHeight: 600, CornerRadius: 6},
		Table:          TableStyle{FontSize: 14, HeaderColor: "#1F2328", BorderColor: "#D1D9E0", CellPadding: 6},
		HorizontalRule: RuleStyle{Color: "#D1D9E0", Thickness: 1},
	}
}

// CompactStylesheet is used for replies: smaller type and tighter spacing
func CompactStylesheet() Stylesheet {
	s := DefaultStylesheet()
	s.Body.FontSize = 14
	s.Body.LineSpacing = 2
	s.Body.ParagraphSpacing = 6
	sizes := [6]float64{20, 18, 16, 15, 14, 13}
	for i := range s.Headings {
		s.Headings[i].FontSize = sizes[i]
		s.Headings[i].ParagraphSpacing = 4
		s.Headings[i].TopSpacing = 6
	}
	s.InlineCode.FontSize = 13
	s.CodeBlock.FontSize = 12
	s.CodeBlock.Padding = 8
	s.List.Indent = 16
	s.List.ItemSpacing = 2
	s.Image.MaxHeight = 320
	s.Table.FontSize = 13
	return s
}

// ABOUTME: ContentElement domain model describes parsed content as structured blocks
// ABOUTME: Used when a block is composited as a native widget instead of styled text

package domain

// ElementKind identifies the variant of a ContentElement
type ElementKind string

const (
	ElementParagraph  ElementKind = "paragraph"
	ElementHeading    ElementKind = "heading"
	ElementCodeBlock  ElementKind = "code_block"
	ElementBlockquote ElementKind = "blockquote"
	ElementList       ElementKind = "list"
	ElementImage      ElementKind = "image"
	ElementTable      ElementKind = "table"
	ElementRule       ElementKind = "rule"
	ElementRaw        ElementKind = "raw"
)

// ContentElement is one block of extracted content.
// Values are immutable once constructed and carry no back-references.
type ContentElement interface {
	Kind() ElementKind
}

// TextRun is a run of inline text with uniform formatting
type TextRun struct {
	Text          string `json:"text"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Superscript   bool   `json:"superscript,omitempty"`
	Subscript     bool   `json:"subscript,omitempty"`
	Link          string `json:"link,omitempty"`
}

// Paragraph is a block of inline text runs
type Paragraph struct {
	Runs []TextRun `json:"runs"`
}

// Text returns the concatenated text of all runs
func (p Paragraph) Text() string {
	n := 0
	for _, r := range p.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range p.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// Heading is a section heading, Level is 1 through 6
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// CodeBlock is preformatted code. Language is empty when unknown.
type CodeBlock struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// Blockquote wraps nested block elements
type Blockquote struct {
	Children []ContentElement `json:"children"`
}

// List is an ordered or unordered list; each item is a sequence of blocks
type List struct {
	Ordered bool               `json:"ordered"`
	Start   int                `json:"start,omitempty"`
	Items   [][]ContentElement `json:"items"`
}

// Image references an image without resolving or fetching it
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Table holds the plain text of each cell
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Rule is a horizontal rule
type Rule struct{}

// Raw carries serialized HTML for content that had no structured form
type Raw struct {
	HTML string `json:"html"`
}

func (Paragraph) Kind() ElementKind  { return ElementParagraph }
func (Heading) Kind() ElementKind    { return ElementHeading }
func (CodeBlock) Kind() ElementKind  { return ElementCodeBlock }
func (Blockquote) Kind() ElementKind { return ElementBlockquote }
func (List) Kind() ElementKind       { return ElementList }
func (Image) Kind() ElementKind      { return ElementImage }
func (Table) Kind() ElementKind      { return ElementTable }
func (Rule) Kind() ElementKind       { return ElementRule }
func (Raw) Kind() ElementKind        { return ElementRaw }

// ImageURLs walks elements depth-first and returns every image URL in
// document order. These are handed to the image-loading collaborator.
func ImageURLs(elements []ContentElement) []string {
	var urls []string
	var walk func([]ContentElement)
	walk = func(list []ContentElement) {
		for _, el := range list {
			switch v := el.(type) {
			case Image:
				urls = append(urls, v.URL)
			case Blockquote:
				walk(v.Children)
			case List:
				for _, item := range v.Items {
					walk(item)
				}
			}
		}
	}
	walk(elements)
	return urls
}

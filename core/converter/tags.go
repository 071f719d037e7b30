package converter

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tagClass groups allow-listed tags by how the walkers treat them
type tagClass int

const (
	tagUnsupported tagClass = iota
	tagTransparent
	tagBlockContainer
	tagParagraph
	tagLineBreak
	tagStrong
	tagEmphasis
	tagStrike
	tagUnderline
	tagSuperscript
	tagSubscript
	tagInlineCode
	tagPre
	tagLink
	tagImage
	tagRule
	tagHeading
	tagBlockquote
	tagList
	tagListItem
	tagTable
	tagTableSection
	tagTableRow
	tagTableCell
)

var allowList = map[atom.Atom]tagClass{
	atom.Html:       tagTransparent,
	atom.Head:       tagTransparent,
	atom.Body:       tagTransparent,
	atom.Span:       tagTransparent,
	atom.Div:        tagBlockContainer,
	atom.P:          tagParagraph,
	atom.Br:         tagLineBreak,
	atom.Strong:     tagStrong,
	atom.B:          tagStrong,
	atom.Em:         tagEmphasis,
	atom.I:          tagEmphasis,
	atom.Del:        tagStrike,
	atom.S:          tagStrike,
	atom.Strike:     tagStrike,
	atom.U:          tagUnderline,
	atom.Ins:        tagUnderline,
	atom.Sup:        tagSuperscript,
	atom.Sub:        tagSubscript,
	atom.Code:       tagInlineCode,
	atom.Pre:        tagPre,
	atom.A:          tagLink,
	atom.Img:        tagImage,
	atom.Hr:         tagRule,
	atom.H1:         tagHeading,
	atom.H2:         tagHeading,
	atom.H3:         tagHeading,
	atom.H4:         tagHeading,
	atom.H5:         tagHeading,
	atom.H6:         tagHeading,
	atom.Blockquote: tagBlockquote,
	atom.Ul:         tagList,
	atom.Ol:         tagList,
	atom.Li:         tagListItem,
	atom.Table:      tagTable,
	atom.Thead:      tagTableSection,
	atom.Tbody:      tagTableSection,
	atom.Tfoot:      tagTableSection,
	atom.Tr:         tagTableRow,
	atom.Th:         tagTableCell,
	atom.Td:         tagTableCell,
}

// silentTags are dropped entirely when the lenient policy degrades them
var silentTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

func classify(n *html.Node) tagClass {
	if n.DataAtom == 0 {
		return tagUnsupported
	}
	return allowList[n.DataAtom]
}

// IsSupportedTag reports whether name is on the allow-list
func IsSupportedTag(name string) bool {
	a := atom.Lookup([]byte(name))
	if a == 0 {
		return false
	}
	_, ok := allowList[a]
	return ok
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	}
	return 6
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

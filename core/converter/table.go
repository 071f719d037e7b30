package converter

import "golang.org/x/net/html"

// tableRows collects the cells of a table row by row without descending
// into nested tables. Unexpected elements are passed to reject, which
// decides whether they fail the conversion.
func tableRows(table *html.Node, reject func(*html.Node) error) ([][]*html.Node, error) {
	var rows [][]*html.Node

	var row func(tr *html.Node) error
	row = func(tr *html.Node) error {
		var cells []*html.Node
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if classify(c) != tagTableCell {
				if err := reject(c); err != nil {
					return err
				}
				continue
			}
			cells = append(cells, c)
		}
		rows = append(rows, cells)
		return nil
	}

	var section func(n *html.Node) error
	section = func(n *html.Node) error {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			var err error
			switch classify(c) {
			case tagTableRow:
				err = row(c)
			case tagTableSection:
				err = section(c)
			default:
				err = reject(c)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := section(table); err != nil {
		return nil, err
	}
	return rows, nil
}

// isHeaderRow reports whether every cell in the row is a th
func isHeaderRow(cells []*html.Node) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Data != "th" {
			return false
		}
	}
	return true
}

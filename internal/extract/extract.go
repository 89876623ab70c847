package extract

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

const maxSpan = 1000

// Extract parses every table in the markup, in document order
func Extract(r io.Reader) ([]*stats.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &stats.ParseError{Reason: "reading markup", Err: err}
	}

	var selections []*goquery.Selection
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		selections = append(selections, sel)
	})
	if len(selections) == 0 {
		selections = commentTables(doc)
	}
	if len(selections) == 0 {
		return nil, &stats.ParseError{Reason: "no table found in markup"}
	}

	tables := make([]*stats.RawTable, 0, len(selections))
	for _, sel := range selections {
		if t := parseTable(sel); t != nil {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return nil, &stats.ParseError{Reason: "no table with columns found in markup"}
	}

	return tables, nil
}

// First returns the first table in document order
func First(r io.Reader) (*stats.RawTable, error) {
	tables, err := Extract(r)
	if err != nil {
		return nil, err
	}
	return tables[0], nil
}

// FirstBytes is First for an in-memory document
func FirstBytes(markup []byte) (*stats.RawTable, error) {
	return First(bytes.NewReader(markup))
}

// commentTables finds tables that are only present inside HTML comments
func commentTables(doc *goquery.Document) []*goquery.Selection {
	var found []*goquery.Selection

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode && strings.Contains(n.Data, "<table") {
			inner, err := goquery.NewDocumentFromReader(strings.NewReader(n.Data))
			if err == nil {
				inner.Find("table").Each(func(_ int, sel *goquery.Selection) {
					found = append(found, sel)
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return found
}

// parseTable converts one <table> into a RawTable; nil when it has no cells
func parseTable(table *goquery.Selection) *stats.RawTable {
	headerRows := rowsOf(table.ChildrenFiltered("thead"))
	bodyRows := rowsOf(table.ChildrenFiltered("tbody"))
	bodyRows = append(bodyRows, directRows(table)...)

	// Without a <thead>, leading all-<th> rows are the header
	if len(headerRows) == 0 {
		for len(bodyRows) > 0 && isHeaderRow(bodyRows[0]) {
			headerRows = append(headerRows, bodyRows[0])
			bodyRows = bodyRows[1:]
		}
	}

	kept := bodyRows[:0]
	for _, row := range bodyRows {
		if isRepeatedHeader(row) {
			continue
		}
		kept = append(kept, row)
	}
	bodyRows = kept

	headerGrid := expand(headerRows)
	bodyGrid := expand(bodyRows)

	width := 0
	for _, line := range headerGrid {
		width = max(width, len(line))
	}
	for _, line := range bodyGrid {
		width = max(width, len(line))
	}
	if width == 0 {
		return nil
	}

	raw := &stats.RawTable{
		Headers: buildHeaders(headerGrid, width),
		Rows:    make([][]string, 0, len(bodyGrid)),
	}
	for _, line := range bodyGrid {
		raw.Rows = append(raw.Rows, pad(line, width))
	}

	return raw
}

// buildHeaders turns the header grid into one Header per column
func buildHeaders(grid [][]string, width int) []stats.Header {
	headers := make([]stats.Header, width)

	switch len(grid) {
	case 0:
		for c := range headers {
			headers[c] = stats.Header{strconv.Itoa(c)}
		}
	case 1:
		line := pad(grid[0], width)
		for c, text := range line {
			if text == "" {
				text = fmt.Sprintf("Unnamed: %d", c)
			}
			headers[c] = stats.Header{text}
		}
	default:
		for c := range headers {
			h := make(stats.Header, len(grid))
			for level, line := range grid {
				text := ""
				if c < len(line) {
					text = line[c]
				}
				if text == "" {
					text = fmt.Sprintf("Unnamed: %d_level_%d", c, level)
				}
				h[level] = text
			}
			headers[c] = h
		}
	}

	return headers
}

func rowsOf(sections *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	sections.Each(func(_ int, section *goquery.Selection) {
		section.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			rows = append(rows, tr)
		})
	})
	return rows
}

func directRows(table *goquery.Selection) []*goquery.Selection {
	var rows []*goquery.Selection
	table.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		rows = append(rows, tr)
	})
	return rows
}

func isHeaderRow(tr *goquery.Selection) bool {
	cells := tr.ChildrenFiltered("th, td")
	return cells.Length() > 0 && cells.Length() == tr.ChildrenFiltered("th").Length()
}

// isRepeatedHeader matches the header rows FBref repeats inside long table bodies
func isRepeatedHeader(tr *goquery.Selection) bool {
	class := tr.AttrOr("class", "")
	for _, c := range strings.Fields(class) {
		if c == "thead" || c == "over_header" || c == "spacer" {
			return true
		}
	}
	return tr.ChildrenFiltered("th, td").Length() == 0
}

type span struct {
	text string
	left int
}

// expand lays rows onto a grid, repeating colspan cells across columns and
// carrying rowspan cells down into the following rows.
func expand(rows []*goquery.Selection) [][]string {
	grid := make([][]string, 0, len(rows))
	var carry []span

	takeCarry := func(line []string, col int) ([]string, int) {
		for col < len(carry) && carry[col].left > 0 {
			line = append(line, carry[col].text)
			carry[col].left--
			col++
		}
		return line, col
	}

	for _, tr := range rows {
		var line []string
		col := 0

		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			line, col = takeCarry(line, col)

			text := cellText(cell)
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")

			for k := 0; k < colspan; k++ {
				line = append(line, text)
				if rowspan > 1 {
					for len(carry) <= col {
						carry = append(carry, span{})
					}
					carry[col] = span{text: text, left: rowspan - 1}
				}
				col++
			}
		})
		for c := col; c < len(carry); c++ {
			if carry[c].left > 0 {
				line = append(pad(line, c), carry[c].text)
				carry[c].left--
			}
		}

		grid = append(grid, line)
	}

	return grid
}

func cellText(cell *goquery.Selection) string {
	return strings.TrimSpace(norm.NFC.String(cell.Text()))
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr(name, "1")))
	if err != nil || v < 1 {
		return 1
	}
	return min(v, maxSpan)
}

func pad(line []string, width int) []string {
	out := make([]string, width)
	copy(out, line)
	return out
}

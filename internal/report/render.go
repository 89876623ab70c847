package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nao1215/markdown"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

// Format specifies the console output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user supplied output format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'markdown')", s)
	}
}

// tableOutput is the JSON shape of a rendered table
type tableOutput struct {
	Title   string     `json:"title,omitempty"`
	Kind    stats.Kind `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Render writes a table in the given format
func Render(w io.Writer, t *stats.Table, format Format, title string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, tableOutput{Title: title, Kind: t.Kind, Columns: t.Columns, Rows: t.Rows})
	case FormatMarkdown:
		return writeMarkdown(w, t, title)
	case FormatText:
		writeText(w, t, title)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// newTextTable prints title on its own line, since go-pretty titles are
// format strings wrapped to the table width.
func newTextTable(w io.Writer, title string) table.Writer {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	// Column names are used as --metric values, so keep them verbatim
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

func writeText(w io.Writer, t *stats.Table, title string) {
	tw := newTextTable(w, title)
	tw.AppendHeader(toRow(t.Columns))
	for _, row := range t.Rows {
		tw.AppendRow(toRow(row))
	}
	tw.Render()
}

func writeMarkdown(w io.Writer, t *stats.Table, title string) error {
	md := markdown.NewMarkdown(w)
	if title != "" {
		md.H2(title)
		md.PlainText("")
	}
	md.Table(markdown.TableSet{
		Header: t.Columns,
		Rows:   t.Rows,
	})
	md.PlainText("")
	return md.Build()
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

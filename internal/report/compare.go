package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

// DefaultCompareColumns are the passing columns shown by Compare
var DefaultCompareColumns = []string{"Squad", "Total_Cmp", "Total_Att", "Total_Cmp%", "Total_TotDist"}

// Compare writes the selected columns for the requested teams.
// An empty selection only logs a warning.
func (r *Reporter) Compare(w io.Writer, t *stats.Table, teams, columns []string, format Format) error {
	if len(columns) == 0 {
		columns = DefaultCompareColumns
	}

	selected := r.Filter(t, teams)
	if selected.IsEmpty() {
		return nil
	}

	projected, err := selected.Project(columns...)
	if err != nil {
		return fmt.Errorf("comparing teams: %w", err)
	}

	return Render(w, projected, format, fmt.Sprintf("%s comparison", t.Kind))
}

// field is one column of one team in a summary
type field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// teamSummary is every field of one team
type teamSummary struct {
	Squad  string  `json:"squad"`
	Fields []field `json:"fields"`
}

// Summary writes every field of each requested team, Squad included, in the order the teams
// were requested. Missing teams are skipped with a warning.
func (r *Reporter) Summary(w io.Writer, t *stats.Table, teams []string, format Format) error {
	selected := r.Filter(t, teams)
	if selected.IsEmpty() {
		return nil
	}

	squadCol, _ := selected.ColumnIndex(stats.SquadColumn)
	byName := make(map[string][]string, selected.Len())
	for _, row := range selected.Rows {
		byName[row[squadCol]] = row
	}

	summaries := make([]teamSummary, 0, len(teams))
	for _, team := range teams {
		row, ok := byName[team]
		if !ok {
			continue
		}
		s := teamSummary{Squad: team, Fields: make([]field, 0, len(row))}
		for i, col := range selected.Columns {
			s.Fields = append(s.Fields, field{Name: col, Value: row[i]})
		}
		summaries = append(summaries, s)
	}

	r.log.Debug("Writing summary", logger.Fields{"kind": string(t.Kind), "teams": len(summaries)})

	switch format {
	case FormatJSON:
		return writeJSON(w, summaries)
	case FormatMarkdown:
		md := markdown.NewMarkdown(w)
		for _, s := range summaries {
			md.H2(s.Squad)
			md.PlainText("")
			rows := make([][]string, 0, len(s.Fields))
			for _, f := range s.Fields {
				rows = append(rows, []string{f.Name, f.Value})
			}
			md.Table(markdown.TableSet{Header: []string{"Field", "Value"}, Rows: rows})
			md.PlainText("")
		}
		return md.Build()
	case FormatText:
		for _, s := range summaries {
			tw := newTextTable(w, fmt.Sprintf("%s (%s)", s.Squad, t.Kind))
			tw.AppendHeader(table.Row{"Field", "Value"})
			for _, f := range s.Fields {
				tw.AppendRow(table.Row{f.Name, f.Value})
			}
			tw.Render()
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

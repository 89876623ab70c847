package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

// SortOrder represents the available ranking directions
type SortOrder string

const (
	SortDescending SortOrder = "desc"
	SortAscending  SortOrder = "asc"
)

// ParseSortOrder validates a user supplied sort order
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortDescending, SortAscending:
		return o, nil
	case "":
		return SortDescending, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", s)
	}
}

// Top returns the n teams with the highest metric, projected to the Squad
// and metric columns. Ties keep table order and non-numeric values sort last.
func Top(t *stats.Table, metric string, n int) (*stats.Table, error) {
	return Rank(t, metric, n, SortDescending)
}

// Rank is Top with an explicit sort order
func Rank(t *stats.Table, metric string, n int, order SortOrder) (*stats.Table, error) {
	col, ok := t.ColumnIndex(metric)
	if !ok {
		return nil, fmt.Errorf("%w: %s", stats.ErrUnknownColumn, metric)
	}

	columns := []string{metric}
	if t.HasSquad() && metric != stats.SquadColumn {
		columns = []string{stats.SquadColumn, metric}
	}

	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)
	sortRows(rows, col, order)

	n = max(0, min(n, len(rows)))
	ranked := &stats.Table{Kind: t.Kind, Columns: t.Columns, Rows: rows[:n]}

	return ranked.Project(columns...)
}

// sortRows stably sorts rows by the numeric value in column col
func sortRows(rows [][]string, col int, order SortOrder) {
	sort.SliceStable(rows, func(i, j int) bool {
		vi, okI := stats.ParseNumber(rows[i][col])
		vj, okJ := stats.ParseNumber(rows[j][col])

		// Numbers before non-numbers in either direction
		if okI != okJ {
			return okI
		}
		if !okI {
			return false
		}
		if order == SortAscending {
			return vi < vj
		}
		return vi > vj
	})
}

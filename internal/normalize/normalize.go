package normalize

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/league-stats/internal/stats"
)

// Stage identifies which resolver stage located the Squad column
type Stage int

const (
	StageNone Stage = iota
	StageRename
	StageSubstring
)

func (s Stage) String() string {
	switch s {
	case StageRename:
		return "rename"
	case StageSubstring:
		return "substring"
	default:
		return "none"
	}
}

// Resolution is the outcome of one resolver stage
type Resolution struct {
	Index int
	Stage Stage
	Found bool
}

var renames = map[string]string{
	"Unnamed: 0_level_0_Squad":  stats.SquadColumn,
	"Unnamed: 1_level_0_# Pl":   "Players",
	"Unnamed: 2_level_0_90s":    "90s",
	"Unnamed: 17_level_0_Ast":   "Ast",
	"Unnamed: 18_level_0_xAG":   "xAG",
	"Unnamed: 21_level_0_KP":    "KP",
	"Unnamed: 22_level_0_1/3":   "1/3",
	"Unnamed: 23_level_0_PPA":   "PPA",
	"Unnamed: 24_level_0_CrsPA": "CrsPA",
	"Unnamed: 25_level_0_PrgP":  "PrgP",
}

// Flatten collapses a header into a single column name
func Flatten(h stats.Header) string {
	if len(h) == 1 {
		return h[0]
	}
	parts := make([]string, len(h))
	for i, p := range h {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.TrimSpace(strings.Join(parts, "_"))
}

// Rename maps a flattened placeholder name to its canonical name.
// Names without a mapping, including canonical names, are returned unchanged.
func Rename(name string) string {
	if canonical, ok := renames[name]; ok {
		return canonical
	}
	return name
}

// RenameMap returns a copy of the static rename table
func RenameMap() map[string]string {
	out := make(map[string]string, len(renames))
	for k, v := range renames {
		out[k] = v
	}
	return out
}

// ResolveRename is the first resolver stage: the Squad column produced by
// the static rename table.
func ResolveRename(columns []string) Resolution {
	for i, c := range columns {
		if c == stats.SquadColumn {
			return Resolution{Index: i, Stage: StageRename, Found: true}
		}
	}
	return Resolution{Index: -1}
}

// ResolveSubstring is the second resolver stage: the first column whose
// name contains "squad", compared case-insensitively.
func ResolveSubstring(columns []string) Resolution {
	for i, c := range columns {
		if strings.Contains(strings.ToLower(c), "squad") {
			return Resolution{Index: i, Stage: StageSubstring, Found: true}
		}
	}
	return Resolution{Index: -1}
}

// Columns flattens and renames raw headers, then runs the Squad resolver.
// The returned columns already carry the Squad rename when one was found.
func Columns(headers []stats.Header) ([]string, Resolution, error) {
	columns := make([]string, len(headers))
	sources := make([]string, len(headers))
	for i, h := range headers {
		sources[i] = Flatten(h)
		columns[i] = Rename(sources[i])
	}

	res := ResolveRename(columns)
	if !res.Found {
		res = ResolveSubstring(columns)
		if res.Found {
			columns[res.Index] = stats.SquadColumn
		}
	}

	if err := checkConflicts(columns, sources); err != nil {
		return nil, res, err
	}

	return columns, res, nil
}

func checkConflicts(columns, sources []string) error {
	seen := make(map[string][]int, len(columns))
	for i, c := range columns {
		seen[c] = append(seen[c], i)
	}
	for _, c := range columns {
		idx := seen[c]
		if len(idx) < 2 {
			continue
		}
		conflict := &stats.ConflictError{Column: c}
		for _, i := range idx {
			conflict.Sources = append(conflict.Sources, sources[i])
		}
		return conflict
	}
	return nil
}

// Normalize produces a table with flat, unique column names from an
// extracted table. Rows are copied; column order is preserved.
func Normalize(raw *stats.RawTable, kind stats.Kind) (*stats.Table, error) {
	if raw == nil || len(raw.Headers) == 0 {
		return nil, &stats.ParseError{Reason: "table has no columns"}
	}

	columns, res, err := Columns(raw.Headers)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s table: %w", kind, err)
	}

	table := stats.NewTable(kind, columns)
	for i, row := range raw.Rows {
		if err := table.AppendRow(row); err != nil {
			return nil, &stats.ParseError{Reason: fmt.Sprintf("row %d", i), Err: err}
		}
	}

	if res.Found {
		if err := validateSquads(table, res.Index); err != nil {
			return nil, fmt.Errorf("normalizing %s table: %w", kind, err)
		}
	}

	return table, nil
}

func validateSquads(t *stats.Table, col int) error {
	seen := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		name := row[col]
		if name == "" {
			return &stats.ParseError{Reason: fmt.Sprintf("row %d has an empty Squad", i)}
		}
		if prev, dup := seen[name]; dup {
			return &stats.ParseError{Reason: fmt.Sprintf("Squad %q appears in rows %d and %d", name, prev, i)}
		}
		seen[name] = i
	}
	return nil
}

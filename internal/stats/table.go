package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SquadColumn is the canonical column holding a team's display name
const SquadColumn = "Squad"

// Header is the ordered list of header levels for one column
type Header []string

// IsMulti reports whether the header spans more than one header row
func (h Header) IsMulti() bool {
	return len(h) > 1
}

// RawTable is a parsed table before column normalization.
// Every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []Header
	Rows    [][]string
}

// Table is a normalized table with flat, unique, ordered column names
type Table struct {
	Kind    Kind       `json:"kind"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable creates an empty table with the given columns
func NewTable(kind Kind, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Kind:    kind,
		Columns: cols,
		Rows:    [][]string{},
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// HasSquad reports whether the table has a Squad column
func (t *Table) HasSquad() bool {
	_, ok := t.ColumnIndex(SquadColumn)
	return ok
}

// Squads returns the Squad value of every row, or nil without a Squad column
func (t *Table) Squads() []string {
	idx, ok := t.ColumnIndex(SquadColumn)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out
}

// Value returns the cell at row i for the named column
func (t *Table) Value(i int, column string) (string, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	if i < 0 || i >= len(t.Rows) {
		return "", fmt.Errorf("row %d out of range (%d rows)", i, len(t.Rows))
	}
	return t.Rows[i][idx], nil
}

// Float returns the numeric value of the cell at row i for the named column.
// ok is false when the cell is empty or not a number.
func (t *Table) Float(i int, column string) (value float64, ok bool, err error) {
	s, err := t.Value(i, column)
	if err != nil {
		return 0, false, err
	}
	v, ok := ParseNumber(s)
	return v, ok, nil
}

// ParseNumber parses statistic text such as "85.0", "1,234" or "-3".
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Project returns a new table containing only the named columns, in the given order
func (t *Table) Project(columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := t.ColumnIndex(c)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c)
		}
		idx[i] = j
	}

	out := NewTable(t.Kind, columns)
	for _, row := range t.Rows {
		nr := make([]string, len(idx))
		for i, j := range idx {
			nr[i] = row[j]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := NewTable(t.Kind, t.Columns)
	for _, row := range t.Rows {
		nr := make([]string, len(row))
		copy(nr, row)
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// AppendRow adds a copy of row; rows must match the column count
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	nr := make([]string, len(row))
	copy(nr, row)
	t.Rows = append(t.Rows, nr)
	return nil
}

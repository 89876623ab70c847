package stats

import (
	"errors"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Kind:    KindPassing,
		Columns: []string{"Squad", "Total_Cmp%", "Total_Att"},
		Rows: [][]string{
			{"Arsenal", "85.0", "18,204"},
			{"Chelsea", "90.0", ""},
		},
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"85.0", 85.0, true},
		{" 1,234 ", 1234, true},
		{"-3", -3, true},
		{"", 0, false},
		{"Arsenal", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTable_Float(t *testing.T) {
	table := sampleTable()

	v, ok, err := table.Float(0, "Total_Att")
	if err != nil || !ok || v != 18204 {
		t.Errorf("Float(0, Total_Att) = %v, %v, %v", v, ok, err)
	}

	_, ok, err = table.Float(1, "Total_Att")
	if err != nil || ok {
		t.Errorf("Float on empty cell: ok = %v, err = %v", ok, err)
	}

	_, _, err = table.Float(0, "xG")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Float on missing column error = %v, want ErrUnknownColumn", err)
	}
}

func TestTable_Project(t *testing.T) {
	table := sampleTable()

	out, err := table.Project("Total_Cmp%", "Squad")
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(out.Columns) != 2 || out.Columns[0] != "Total_Cmp%" {
		t.Errorf("Project() columns = %v", out.Columns)
	}
	if out.Rows[1][1] != "Chelsea" {
		t.Errorf("Project() row 1 = %v", out.Rows[1])
	}

	// source untouched
	out.Rows[0][0] = "changed"
	if table.Rows[0][1] != "85.0" {
		t.Error("Project() shares row storage with the source table")
	}

	if _, err := table.Project("missing"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Project(missing) error = %v, want ErrUnknownColumn", err)
	}
}

func TestTable_Squads(t *testing.T) {
	table := sampleTable()
	squads := table.Squads()
	if len(squads) != 2 || squads[0] != "Arsenal" || squads[1] != "Chelsea" {
		t.Errorf("Squads() = %v", squads)
	}

	noSquad := NewTable(KindShooting, []string{"Team"})
	if noSquad.HasSquad() {
		t.Error("HasSquad() = true for table without Squad")
	}
	if noSquad.Squads() != nil {
		t.Error("Squads() should be nil without a Squad column")
	}
}

func TestTable_AppendRow(t *testing.T) {
	table := NewTable(KindPassing, []string{"Squad", "KP"})
	if err := table.AppendRow([]string{"Arsenal"}); err == nil {
		t.Error("AppendRow() accepted a short row")
	}
	if err := table.AppendRow([]string{"Arsenal", "300"}); err != nil {
		t.Errorf("AppendRow() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Passing ")
	if err != nil || k != KindPassing {
		t.Errorf("ParseKind(Passing) = %q, %v", k, err)
	}
	if _, err := ParseKind("defense"); err == nil {
		t.Error("ParseKind(defense) expected error")
	}

	p, err := LookupPage(KindShooting)
	if err != nil || p.URL != ShootingURL {
		t.Errorf("LookupPage(shooting) = %+v, %v", p, err)
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = &NetworkError{URL: "https://example.com", Strategy: "primary", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}

	status := &NetworkError{URL: "https://example.com", StatusCode: 500, Strategy: "fallback"}
	if got := status.Error(); got != "fetching https://example.com (fallback): unexpected status code: 500" {
		t.Errorf("Error() = %q", got)
	}

	var ioErr *IOError
	wrapped := error(&IOError{Op: "write", Path: "/tmp/x", Err: cause})
	if !errors.As(wrapped, &ioErr) || ioErr.Path != "/tmp/x" {
		t.Error("errors.As should find IOError")
	}
}

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

func passingTable() *stats.Table {
	t := stats.NewTable(stats.KindPassing, []string{"Squad", "Total_Cmp", "Total_Att", "Total_Cmp%", "Total_TotDist", "KP"})
	t.Rows = [][]string{
		{"Arsenal", "5209", "6013", "86.6", "93100", "150"},
		{"Chelsea", "5470", "6233", "87.8", "95521", "131"},
		{"Nott'ham Forest", "3101", "4059", "76.4", "61022", "90"},
		{"Manchester City", "6120", "6822", "89.7", "108200", "150"},
		{"Ipswich Town", "2900", "3900", "", "52000", "n/a"},
	}
	return t
}

func newTestReporter() (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(WithLogger(logger.New(logger.LevelDebug, &buf))), &buf
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		teams []string
		want  []string
	}{
		{"keeps table order", []string{"Manchester City", "Arsenal"}, []string{"Arsenal", "Manchester City"}},
		{"single team", []string{"Nott'ham Forest"}, []string{"Nott'ham Forest"}},
		{"unknown team ignored", []string{"Chelsea", "Leeds United"}, []string{"Chelsea"}},
		{"no match is empty", []string{"Leeds United"}, nil},
		{"no teams is empty", nil, nil},
		{"exact match only", []string{"arsenal"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(passingTable(), tt.teams)

			assert.Equal(t, passingTable().Columns, got.Columns)
			assert.Equal(t, len(tt.want), got.Len())
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got.Squads())
			}
		})
	}
}

func TestFilter_NoSquadColumn(t *testing.T) {
	table := stats.NewTable(stats.KindShooting, []string{"Team", "Gls"})
	table.Rows = [][]string{{"Arsenal", "20"}}

	got := Filter(table, []string{"Arsenal"})
	assert.True(t, got.IsEmpty())
	assert.Equal(t, []string{"Team", "Gls"}, got.Columns)
}

func TestReporterFilter_WarnsWithSuggestion(t *testing.T) {
	r, buf := newTestReporter()

	got := r.Filter(passingTable(), []string{"Arsenal", "Nottham Forest"})
	assert.Equal(t, []string{"Arsenal"}, got.Squads())

	var entry logger.LogEntry
	line := strings.SplitN(strings.TrimSpace(buf.String()), "\n", 2)[0]
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "WARN", entry.Level)
	assert.Equal(t, "Team not found", entry.Message)
	assert.Equal(t, "Nottham Forest", entry.Fields["team"])
	assert.Equal(t, "Nott'ham Forest", entry.Fields["did_you_mean"])
}

func TestReporterFilter_EmptyWarns(t *testing.T) {
	r, buf := newTestReporter()

	got := r.Filter(passingTable(), []string{"Leeds United"})
	assert.True(t, got.IsEmpty())
	assert.Contains(t, buf.String(), "No matching teams")
}

func TestSuggest(t *testing.T) {
	squads := passingTable().Squads()

	tests := []struct {
		team   string
		want   string
		wantOK bool
	}{
		{"arsenal", "Arsenal", true},
		{"MANCHESTER CITY", "Manchester City", true},
		{"Nottham Forest", "Nott'ham Forest", true},
		{"Chelsae", "Chelsea", true},
		{"Real Madrid", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			got, ok := Suggest(tt.team, squads)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTop(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		n      int
		want   [][]string
	}{
		{
			name:   "top one",
			metric: "Total_Cmp%",
			n:      1,
			want:   [][]string{{"Manchester City", "89.7"}},
		},
		{
			name:   "non-numeric last",
			metric: "Total_Cmp%",
			n:      10,
			want: [][]string{
				{"Manchester City", "89.7"},
				{"Chelsea", "87.8"},
				{"Arsenal", "86.6"},
				{"Nott'ham Forest", "76.4"},
				{"Ipswich Town", ""},
			},
		},
		{
			name:   "ties keep table order",
			metric: "KP",
			n:      3,
			want:   [][]string{{"Arsenal", "150"}, {"Manchester City", "150"}, {"Chelsea", "131"}},
		},
		{
			name:   "zero rows",
			metric: "KP",
			n:      0,
			want:   [][]string{},
		},
		{
			name:   "negative n",
			metric: "KP",
			n:      -2,
			want:   [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Top(passingTable(), tt.metric, tt.n)
			require.NoError(t, err)

			assert.Equal(t, []string{"Squad", tt.metric}, got.Columns)
			if diff := cmp.Diff(tt.want, got.Rows); diff != "" {
				t.Errorf("Top() rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTop_DoesNotMutateInput(t *testing.T) {
	table := passingTable()
	_, err := Top(table, "Total_Cmp%", 3)
	require.NoError(t, err)
	assert.Equal(t, passingTable().Rows, table.Rows)
}

func TestTop_UnknownColumn(t *testing.T) {
	_, err := Top(passingTable(), "Total_Xyz", 3)
	assert.True(t, errors.Is(err, stats.ErrUnknownColumn))
}

func TestRank_Ascending(t *testing.T) {
	got, err := Rank(passingTable(), "Total_Cmp%", 2, SortAscending)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nott'ham Forest", "76.4"}, {"Arsenal", "86.6"}}, got.Rows)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, SortAscending, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDescending, o)

	_, err = ParseSortOrder("up")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	teams := []string{"Arsenal", "Nott'ham Forest"}

	t.Run("text", func(t *testing.T) {
		r, _ := newTestReporter()
		var out bytes.Buffer
		require.NoError(t, r.Compare(&out, passingTable(), teams, nil, FormatText))

		s := out.String()
		assert.Contains(t, s, "Total_TotDist")
		assert.Contains(t, s, "Nott'ham Forest")
		assert.Contains(t, s, "86.6")
		assert.NotContains(t, s, "Chelsea")
		assert.NotContains(t, s, "KP")
	})

	t.Run("json", func(t *testing.T) {
		r, _ := newTestReporter()
		var out bytes.Buffer
		require.NoError(t, r.Compare(&out, passingTable(), teams, []string{"Squad", "KP"}, FormatJSON))

		var got tableOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, stats.KindPassing, got.Kind)
		assert.Equal(t, []string{"Squad", "KP"}, got.Columns)
		assert.Equal(t, [][]string{{"Arsenal", "150"}, {"Nott'ham Forest", "90"}}, got.Rows)
	})

	t.Run("markdown", func(t *testing.T) {
		r, _ := newTestReporter()
		var out bytes.Buffer
		require.NoError(t, r.Compare(&out, passingTable(), teams, []string{"Squad", "Total_Cmp%"}, FormatMarkdown))

		s := out.String()
		assert.Contains(t, s, "## passing comparison")
		assert.Contains(t, s, "| Squad")
		assert.Contains(t, s, "Arsenal")
	})

	t.Run("empty selection writes nothing", func(t *testing.T) {
		r, logs := newTestReporter()
		var out bytes.Buffer
		require.NoError(t, r.Compare(&out, passingTable(), []string{"Leeds United"}, nil, FormatText))
		assert.Empty(t, out.String())
		assert.Contains(t, logs.String(), "WARN")
	})

	t.Run("unknown column", func(t *testing.T) {
		r, _ := newTestReporter()
		err := r.Compare(&bytes.Buffer{}, passingTable(), teams, []string{"Squad", "Nope"}, FormatText)
		assert.True(t, errors.Is(err, stats.ErrUnknownColumn))
	})
}

func TestRender_TextTitleVerbatim(t *testing.T) {
	tbl := stats.NewTable(stats.KindPassing, []string{"Squad", "Total_Cmp%"})
	tbl.Rows = [][]string{{"Arsenal", "86.6"}}

	var out bytes.Buffer
	require.NoError(t, Render(&out, tbl, FormatText, "Top 1 passing teams by Total_Cmp%"))

	first, _, _ := strings.Cut(out.String(), "\n")
	assert.Equal(t, "Top 1 passing teams by Total_Cmp%", first)
	assert.NotContains(t, out.String(), "%!")
}

func TestSummary_RequestedOrder(t *testing.T) {
	r, _ := newTestReporter()
	var out bytes.Buffer

	err := r.Summary(&out, passingTable(), []string{"Chelsea", "Leeds United", "Arsenal"}, FormatJSON)
	require.NoError(t, err)

	var got []teamSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Chelsea", got[0].Squad)
	assert.Equal(t, "Arsenal", got[1].Squad)
	assert.Equal(t, field{Name: "Squad", Value: "Chelsea"}, got[0].Fields[0])
	assert.Equal(t, field{Name: "Total_Cmp", Value: "5470"}, got[0].Fields[1])
	assert.Len(t, got[0].Fields, 6)
}

func TestSummary_Text(t *testing.T) {
	r, _ := newTestReporter()
	var out bytes.Buffer

	require.NoError(t, r.Summary(&out, passingTable(), []string{"Arsenal"}, FormatText))
	assert.True(t, strings.HasPrefix(out.String(), "Arsenal (passing)\n"))
	assert.Contains(t, out.String(), "Total_Cmp%")

	out.Reset()
	require.NoError(t, r.Summary(&out, passingTable(), nil, FormatText))
	assert.Empty(t, out.String())
}

func TestExportExcel(t *testing.T) {
	r, _ := newTestReporter()
	path := filepath.Join(t.TempDir(), "passing_comparison.xlsx")

	require.NoError(t, r.ExportExcel(path, passingTable(), []string{"Arsenal", "Nott'ham Forest"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "passing", f.GetSheetName(0))
	rows, err := f.GetRows("passing")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, passingTable().Columns, rows[0])
	assert.Equal(t, "Arsenal", rows[1][0])
	assert.Equal(t, "86.6", rows[1][3])
	assert.Equal(t, "Nott'ham Forest", rows[2][0])

	cellType, err := f.GetCellType("passing", "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestExportExcel_EmptySelection(t *testing.T) {
	r, logs := newTestReporter()
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, r.ExportExcel(path, passingTable(), []string{"Leeds United"}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("passing")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Squad", rows[0][0])
	assert.Contains(t, logs.String(), "header-only")
}

func TestPlotBar(t *testing.T) {
	r, _ := newTestReporter()
	dir := t.TempDir()
	path := filepath.Join(dir, PlotFileName("Total_Cmp%"))

	written, err := r.PlotBar(path, passingTable(), []string{"Arsenal", "Nott'ham Forest"}, "Total_Cmp%", "")
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "output is not a PNG")
}

func TestPlotBar_NegativeValues(t *testing.T) {
	tbl := stats.NewTable(stats.KindPassing, []string{"Squad", "A-xAG"})
	tbl.Rows = [][]string{
		{"Arsenal", "-2.1"},
		{"Chelsea", "-1.0"},
	}

	r, _ := newTestReporter()
	path := filepath.Join(t.TempDir(), PlotFileName("A-xAG"))
	written, err := r.PlotBar(path, tbl, []string{"Arsenal", "Chelsea"}, "A-xAG", "")
	require.NoError(t, err)
	assert.True(t, written)
	assert.FileExists(t, path)
}

func TestValueRange(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		min, max float64
	}{
		{"positive", []float64{10, 20}, 0, 22},
		{"negative", []float64{-2, -1}, -2.2, 0},
		{"mixed", []float64{-1, 3}, -1.1, 3.3},
		{"all zero", []float64{0, 0}, 0, 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars := make([]chart.Value, len(tt.values))
			for i, v := range tt.values {
				bars[i] = chart.Value{Value: v}
			}
			got := valueRange(bars)
			assert.InDelta(t, tt.min, got.Min, 1e-9)
			assert.InDelta(t, tt.max, got.Max, 1e-9)
			for _, v := range tt.values {
				assert.GreaterOrEqual(t, v, got.Min)
				assert.LessOrEqual(t, v, got.Max)
			}
		})
	}
}

func TestPlotBar_EmptySelection(t *testing.T) {
	r, _ := newTestReporter()
	path := filepath.Join(t.TempDir(), "plot.png")

	written, err := r.PlotBar(path, passingTable(), []string{"Leeds United"}, "Total_Cmp%", "")
	require.NoError(t, err)
	assert.False(t, written)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPlotBar_UnknownMetric(t *testing.T) {
	r, _ := newTestReporter()
	_, err := r.PlotBar(filepath.Join(t.TempDir(), "plot.png"), passingTable(), []string{"Arsenal"}, "Nope", "")
	assert.True(t, errors.Is(err, stats.ErrUnknownColumn))
}

func TestPlotNames(t *testing.T) {
	assert.Equal(t, "plot_Total_Cmp%.png", PlotFileName("Total_Cmp%"))
	assert.Equal(t, "plot_1_3.png", PlotFileName("1/3"))
	assert.Equal(t, "Premier League Standard_Sh Comparison", PlotTitle("Standard_Sh"))
}

package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
	"github.com/pfrederiksen/league-stats/internal/storage"
)

const (
	plotWidth  = 1000
	plotHeight = 600
	barWidth   = 60
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// PlotFileName returns the chart file name for a metric
func PlotFileName(metric string) string {
	return "plot_" + fileNameReplacer.Replace(metric) + ".png"
}

// PlotTitle returns the default chart title for a metric
func PlotTitle(metric string) string {
	return fmt.Sprintf("Premier League %s Comparison", metric)
}

// PlotBar renders a bar chart of metric for the requested teams as PNG.
// It reports whether a file was written; an empty selection writes nothing.
func (r *Reporter) PlotBar(path string, t *stats.Table, teams []string, metric, title string) (bool, error) {
	if _, ok := t.ColumnIndex(metric); !ok {
		return false, fmt.Errorf("plotting: %w: %s", stats.ErrUnknownColumn, metric)
	}
	if title == "" {
		title = PlotTitle(metric)
	}

	selected := r.Filter(t, teams)
	if selected.IsEmpty() {
		r.log.Warn("Nothing to plot", logger.Fields{"metric": metric})
		return false, nil
	}

	bars := make([]chart.Value, 0, selected.Len())
	for i := range selected.Rows {
		squad, _ := selected.Value(i, stats.SquadColumn)
		v, ok, _ := selected.Float(i, metric)
		if !ok {
			r.log.Warn("Non-numeric value plotted as zero", logger.Fields{"team": squad, "metric": metric})
		}
		bars = append(bars, chart.Value{Value: v, Label: squad})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    plotWidth,
		Height:   plotHeight,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name: metric,
			Range: valueRange(bars),
		},
		Bars: bars,
	}

	if err := storage.WriteFileAtomic(path, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	}); err != nil {
		return false, err
	}

	r.log.Info("Saved chart", logger.Fields{"path": path, "metric": metric, "teams": len(bars)})
	return true, nil
}

// valueRange spans every bar and zero, with a tenth of headroom on each side
// that has values. Differences such as A-xAG are often negative.
func valueRange(bars []chart.Value) *chart.ContinuousRange {
	top, bottom := 0.0, 0.0
	for _, b := range bars {
		top = math.Max(top, b.Value)
		bottom = math.Min(bottom, b.Value)
	}
	if top == 0 && bottom == 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: bottom * 1.1, Max: top * 1.1}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/pipeline"
	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		format    string
		offline   bool
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch both tables and produce every report",
		Long: `Fetch the passing and shooting tables, then print the passing
comparison, the top teams for passing and shooting, the team summaries,
and write the Excel workbook and bar chart into the cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Format
			}
			ft, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			tables := make(map[stats.Kind]*stats.Table)
			if offline {
				for _, page := range a.cfg.Pages() {
					t, err := a.table(cmd.Context(), page.Kind, true)
					if err != nil {
						return err
					}
					tables[page.Kind] = t
				}
			} else {
				opts := pipeline.Options{
					Concurrency: a.cfg.Concurrency,
					KeepGoing:   a.cfg.KeepGoing || keepGoing,
				}
				outcomes, err := a.pipeline().RunAll(cmd.Context(), a.cfg.Pages(), opts)
				if err != nil && !opts.KeepGoing {
					return err
				}
				if err != nil {
					a.log.Warn("Continuing with the tables that were fetched", logger.Fields{"error": err.Error()})
				}
				tables = pipeline.Tables(outcomes)
			}

			return a.reportAll(cmd, tables, ft)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: text, json or markdown (default from config)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Read cached tables instead of fetching")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Report on the kinds that succeeded when one fails")

	return cmd
}

// reportAll produces every report for the tables that are available
func (a *app) reportAll(cmd *cobra.Command, tables map[stats.Kind]*stats.Table, format report.Format) error {
	w := cmd.OutOrStdout()
	cfg := a.cfg

	if passing, ok := tables[stats.KindPassing]; ok {
		if err := a.reporter.Compare(w, passing, cfg.Teams, cfg.CompareColumns, format); err != nil {
			return err
		}
	}

	for _, kind := range []stats.Kind{stats.KindPassing, stats.KindShooting} {
		t, ok := tables[kind]
		if !ok {
			continue
		}
		metric := cfg.MetricFor(kind)
		top, err := report.Top(t, metric, cfg.TopN)
		if err != nil {
			return err
		}
		if err := report.Render(w, top, format, topTitle(kind, metric, cfg.TopN)); err != nil {
			return err
		}
	}

	passing, ok := tables[stats.KindPassing]
	if !ok {
		return nil
	}

	if err := a.reporter.Summary(w, passing, cfg.Teams, format); err != nil {
		return err
	}

	excelPath := a.store.Artifact(cfg.ExcelFile)
	if err := a.reporter.ExportExcel(excelPath, passing, cfg.Teams); err != nil {
		return fmt.Errorf("exporting workbook: %w", err)
	}

	plotPath := a.store.Artifact(report.PlotFileName(cfg.Plot.Metric))
	if _, err := a.reporter.PlotBar(plotPath, passing, cfg.Teams, cfg.Plot.Metric, cfg.Plot.Title); err != nil {
		return fmt.Errorf("plotting: %w", err)
	}

	return nil
}

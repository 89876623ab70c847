package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

// reportFlags are shared by the report commands
type reportFlags struct {
	kind    string
	teams   []string
	format  string
	offline bool
}

func (f *reportFlags) register(cmd *cobra.Command, defaultKind stats.Kind) {
	cmd.Flags().StringVar(&f.kind, "kind", string(defaultKind), "Statistic kind: passing or shooting")
	cmd.Flags().StringSliceVar(&f.teams, "teams", nil, "Teams to include (default from config)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: text, json or markdown (default from config)")
	cmd.Flags().BoolVar(&f.offline, "offline", false, "Read the cached table instead of fetching")
}

// resolve validates the flags against the loaded configuration
func (f *reportFlags) resolve(a *app) (stats.Kind, []string, report.Format, error) {
	kind, err := stats.ParseKind(f.kind)
	if err != nil {
		return "", nil, "", err
	}

	teams := f.teams
	if len(teams) == 0 {
		teams = a.cfg.Teams
	}

	format := f.format
	if format == "" {
		format = a.cfg.Format
	}
	ft, err := report.ParseFormat(format)
	if err != nil {
		return "", nil, "", err
	}

	return kind, teams, ft, nil
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		rf      reportFlags
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare selected columns for the chosen teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, teams, format, err := rf.resolve(a)
			if err != nil {
				return err
			}
			if len(columns) == 0 {
				columns = a.cfg.CompareColumns
			}

			t, err := a.table(cmd.Context(), kind, rf.offline)
			if err != nil {
				return err
			}
			return a.reporter.Compare(cmd.OutOrStdout(), t, teams, columns, format)
		},
	}

	rf.register(cmd, stats.KindPassing)
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to show (default from config)")

	return cmd
}

func newTopCmd(a *app) *cobra.Command {
	var (
		rf     reportFlags
		metric string
		n      int
		order  string
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank all teams by a metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _, format, err := rf.resolve(a)
			if err != nil {
				return err
			}
			so, err := report.ParseSortOrder(order)
			if err != nil {
				return err
			}
			if metric == "" {
				metric = a.cfg.MetricFor(kind)
			}
			if !cmd.Flags().Changed("limit") {
				n = a.cfg.TopN
			}

			t, err := a.table(cmd.Context(), kind, rf.offline)
			if err != nil {
				return err
			}
			ranked, err := report.Rank(t, metric, n, so)
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), ranked, format, topTitle(kind, metric, n))
		},
	}

	rf.register(cmd, stats.KindPassing)
	cmd.Flags().StringVar(&metric, "metric", "", "Column to rank by (default from config)")
	cmd.Flags().IntVarP(&n, "limit", "n", 0, "Number of teams (default from config)")
	cmd.Flags().StringVar(&order, "order", string(report.SortDescending), "Sort order: desc or asc")

	return cmd
}

func topTitle(kind stats.Kind, metric string, n int) string {
	return fmt.Sprintf("Top %d %s teams by %s", n, kind, metric)
}

func newSummaryCmd(a *app) *cobra.Command {
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print every statistic for the chosen teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, teams, format, err := rf.resolve(a)
			if err != nil {
				return err
			}
			t, err := a.table(cmd.Context(), kind, rf.offline)
			if err != nil {
				return err
			}
			return a.reporter.Summary(cmd.OutOrStdout(), t, teams, format)
		},
	}

	rf.register(cmd, stats.KindPassing)

	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		rf     reportFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chosen teams to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, teams, _, err := rf.resolve(a)
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.ExcelFile
			}

			t, err := a.table(cmd.Context(), kind, rf.offline)
			if err != nil {
				return err
			}
			path := a.store.Artifact(output)
			if err := a.reporter.ExportExcel(path, t, teams); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
			return nil
		},
	}

	rf.register(cmd, stats.KindPassing)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Workbook file, relative to the cache directory (default from config)")

	return cmd
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		rf     reportFlags
		metric string
		title  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a bar chart of a metric for the chosen teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, teams, _, err := rf.resolve(a)
			if err != nil {
				return err
			}
			if metric == "" {
				metric = a.cfg.Plot.Metric
				if title == "" {
					title = a.cfg.Plot.Title
				}
			}
			if output == "" {
				output = report.PlotFileName(metric)
			}

			t, err := a.table(cmd.Context(), kind, rf.offline)
			if err != nil {
				return err
			}
			path := a.store.Artifact(output)
			written, err := a.reporter.PlotBar(path, t, teams, metric, title)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			}
			return nil
		},
	}

	rf.register(cmd, stats.KindPassing)
	cmd.Flags().StringVar(&metric, "metric", "", "Column to plot (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title (default \"Premier League <metric> Comparison\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Image file, relative to the cache directory (default plot_<metric>.png)")

	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/league-stats/internal/pipeline"
	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		format      string
		concurrency int
		keepGoing   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [kind...]",
		Short: "Fetch statistics tables into the cache",
		Long: `Fetch the passing and shooting tables (or only the kinds given),
normalize their columns and write <cache-dir>/<kind>_stats.csv.`,
		ValidArgs: []string{string(stats.KindPassing), string(stats.KindShooting)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ft, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			pages, err := a.pages(args)
			if err != nil {
				return err
			}

			opts := pipeline.Options{Concurrency: a.cfg.Concurrency, KeepGoing: a.cfg.KeepGoing}
			if cmd.Flags().Changed("concurrency") {
				opts.Concurrency = concurrency
			}
			if cmd.Flags().Changed("keep-going") {
				opts.KeepGoing = keepGoing
			}

			outcomes, runErr := a.pipeline().RunAll(cmd.Context(), pages, opts)
			if err := WriteOutput(cmd.OutOrStdout(), newFetchResult(a.store.Dir(), outcomes), ft); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of pages fetched at once")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Fetch remaining kinds when one fails")

	return cmd
}

// pages resolves kind arguments to configured pages; no arguments means all
func (a *app) pages(args []string) ([]stats.Page, error) {
	if len(args) == 0 {
		return a.cfg.Pages(), nil
	}

	pages := make([]stats.Page, 0, len(args))
	seen := make(map[stats.Kind]bool, len(args))
	for _, arg := range args {
		kind, err := stats.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true

		page, err := a.cfg.Page(kind)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

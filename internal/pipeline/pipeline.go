package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/league-stats/internal/extract"
	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/normalize"
	"github.com/pfrederiksen/league-stats/internal/scraper"
	"github.com/pfrederiksen/league-stats/internal/stats"
	"github.com/pfrederiksen/league-stats/internal/storage"
)

// Fetcher retrieves the markup for a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Result, error)
}

// Pipeline wires the fetcher to the cache
type Pipeline struct {
	fetcher Fetcher
	store   *storage.Storage
	log     *logger.Logger
	metrics *logger.Metrics
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger handle
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = l
	}
}

// WithMetrics sets the metrics registry
func WithMetrics(m *logger.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a pipeline that fetches through f and caches into store
func New(f Fetcher, store *storage.Storage, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: f,
		store:   store,
		log:     logger.Default(),
		metrics: logger.NewMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches one page and returns the normalized table and its cache path
func (p *Pipeline) Run(ctx context.Context, page stats.Page) (*stats.Table, string, error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordTiming("pipeline."+string(page.Kind), time.Since(start))
	}()

	fields := logger.Fields{"kind": string(page.Kind), "url": page.URL}
	p.log.Info("Fetching statistics", fields)

	res, err := p.fetcher.Fetch(ctx, page.URL)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s stats: %w", page.Kind, err)
	}

	raw, err := extract.FirstBytes(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("extracting %s table: %w", page.Kind, err)
	}

	table, err := normalize.Normalize(raw, page.Kind)
	if err != nil {
		return nil, "", err
	}
	if !table.HasSquad() {
		p.log.Warn("No Squad column found, team filters will match nothing", fields)
	}

	path, err := p.store.Write(table, page.Kind)
	if err != nil {
		return nil, "", fmt.Errorf("caching %s table: %w", page.Kind, err)
	}

	p.metrics.SetGauge("pipeline."+string(page.Kind)+".rows", float64(table.Len()))
	p.log.Info("Cached statistics", logger.Fields{
		"kind":     string(page.Kind),
		"path":     path,
		"rows":     table.Len(),
		"columns":  len(table.Columns),
		"strategy": res.Strategy.String(),
	})

	return table, path, nil
}

// Options controls RunAll
type Options struct {
	// Concurrency is the number of pages fetched at once; values below 1 mean 1
	Concurrency int
	// KeepGoing runs every page even when one fails
	KeepGoing bool
}

// Outcome is the result of one page in RunAll
type Outcome struct {
	Page    stats.Page
	Table   *stats.Table
	Path    string
	Err     error
	Skipped bool
}

// RunAll runs the pipeline for every page, returning one outcome per page in
// input order. Without KeepGoing the first failure cancels the pages not yet
// started and is returned. With KeepGoing every failure is returned joined.
func (p *Pipeline) RunAll(ctx context.Context, pages []stats.Page, opts Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(pages))
	for i, page := range pages {
		outcomes[i].Page = page
	}

	var g *errgroup.Group
	gctx := ctx
	if opts.KeepGoing {
		g = &errgroup.Group{}
	} else {
		g, gctx = errgroup.WithContext(ctx)
	}
	g.SetLimit(max(opts.Concurrency, 1))

	for i := range pages {
		out := &outcomes[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out.Skipped = true
				return nil
			}

			table, path, err := p.Run(gctx, out.Page)
			if err != nil {
				out.Err = err
				p.log.Error("Pipeline failed", logger.Fields{"kind": string(out.Page.Kind)}, err)
				p.metrics.IncrCounter("pipeline.failures")
				if opts.KeepGoing {
					return nil
				}
				return err
			}

			out.Table = table
			out.Path = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	var errs []error
	for _, out := range outcomes {
		if out.Err != nil {
			errs = append(errs, out.Err)
		}
	}
	if len(errs) > 0 {
		return outcomes, fmt.Errorf("%d of %d pages failed: %w", len(errs), len(pages), errors.Join(errs...))
	}

	return outcomes, nil
}

// Tables returns the successful tables of a RunAll by kind
func Tables(outcomes []Outcome) map[stats.Kind]*stats.Table {
	out := make(map[stats.Kind]*stats.Table, len(outcomes))
	for _, o := range outcomes {
		if o.Table != nil {
			out[o.Page.Kind] = o.Table
		}
	}
	return out
}

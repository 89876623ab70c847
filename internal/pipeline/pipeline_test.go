package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/scraper"
	"github.com/pfrederiksen/league-stats/internal/stats"
	"github.com/pfrederiksen/league-stats/internal/storage"
)

const twoTeamMarkup = `<html><body>
<table>
<thead>
<tr><th rowspan="2">Squad</th><th>Total</th></tr>
<tr><th>Cmp%</th></tr>
</thead>
<tbody>
<tr><td>Arsenal</td><td>85.0</td></tr>
<tr><td>Chelsea</td><td>90.0</td></tr>
</tbody>
</table>
</body></html>`

// fakeFetcher serves markup by URL
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*scraper.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return &scraper.Result{URL: url, StatusCode: 200, Body: []byte(f.pages[url]), Strategy: scraper.StrategyPrimary}, nil
}

func newTestPipeline(t *testing.T, f Fetcher) (*Pipeline, *storage.Storage, *logger.Metrics) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	m := logger.NewMetrics()
	return New(f, store, WithLogger(logger.Discard()), WithMetrics(m)), store, m
}

func TestRun_TwoTeamScenario(t *testing.T) {
	page := stats.Page{Kind: stats.KindPassing, URL: "https://example.test/passing"}
	p, store, m := newTestPipeline(t, &fakeFetcher{pages: map[string]string{page.URL: twoTeamMarkup}})

	table, path, err := p.Run(context.Background(), page)
	require.NoError(t, err)

	assert.Equal(t, []string{"Squad", "Total_Cmp%"}, table.Columns)
	assert.Equal(t, store.Path(stats.KindPassing), path)

	top, err := report.Top(table, "Total_Cmp%", 1)
	require.NoError(t, err)
	require.Equal(t, 1, top.Len())
	assert.Equal(t, []string{"Chelsea", "90.0"}, top.Rows[0])

	cached, err := store.Load(stats.KindPassing)
	require.NoError(t, err)
	assert.Equal(t, table.Rows, cached.Rows)

	snapshot := m.Snapshot()
	assert.Contains(t, snapshot.Timings, "pipeline.passing")
	assert.Equal(t, 2.0, snapshot.Gauges["pipeline.passing.rows"])
}

func TestRun_Errors(t *testing.T) {
	page := stats.Page{Kind: stats.KindShooting, URL: "https://example.test/shooting"}

	tests := []struct {
		name    string
		fetcher *fakeFetcher
		check   func(t *testing.T, err error)
	}{
		{
			name: "network error",
			fetcher: &fakeFetcher{errs: map[string]error{
				page.URL: &stats.NetworkError{URL: page.URL, StatusCode: 500, Strategy: "primary"},
			}},
			check: func(t *testing.T, err error) {
				var netErr *stats.NetworkError
				assert.True(t, errors.As(err, &netErr))
			},
		},
		{
			name:    "no table",
			fetcher: &fakeFetcher{pages: map[string]string{page.URL: "<html><body>Just a moment...</body></html>"}},
			check: func(t *testing.T, err error) {
				var parseErr *stats.ParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name: "conflicting columns",
			fetcher: &fakeFetcher{pages: map[string]string{
				page.URL: `<table><tr><th>Squad</th><th>Gls</th><th>Gls</th></tr><tr><td>Arsenal</td><td>1</td><td>2</td></tr></table>`,
			}},
			check: func(t *testing.T, err error) {
				var conflict *stats.ConflictError
				require.True(t, errors.As(err, &conflict))
				assert.Equal(t, "Gls", conflict.Column)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, store, _ := newTestPipeline(t, tt.fetcher)

			table, path, err := p.Run(context.Background(), page)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Empty(t, path)
			assert.False(t, store.Exists(stats.KindShooting), "failed run must not write the cache")
			tt.check(t, err)
		})
	}
}

func TestRunAll(t *testing.T) {
	passing := stats.Page{Kind: stats.KindPassing, URL: "https://example.test/passing"}
	shooting := stats.Page{Kind: stats.KindShooting, URL: "https://example.test/shooting"}
	pages := []stats.Page{passing, shooting}
	boom := &stats.NetworkError{URL: passing.URL, StatusCode: 403, Strategy: "fallback"}

	t.Run("sequential success", func(t *testing.T) {
		f := &fakeFetcher{pages: map[string]string{passing.URL: twoTeamMarkup, shooting.URL: twoTeamMarkup}}
		p, _, _ := newTestPipeline(t, f)

		outcomes, err := p.RunAll(context.Background(), pages, Options{})
		require.NoError(t, err)
		require.Len(t, outcomes, 2)
		assert.Equal(t, []string{passing.URL, shooting.URL}, f.calls)

		tables := Tables(outcomes)
		assert.Len(t, tables, 2)
		assert.Equal(t, stats.KindShooting, tables[stats.KindShooting].Kind)
	})

	t.Run("first failure aborts", func(t *testing.T) {
		f := &fakeFetcher{
			pages: map[string]string{shooting.URL: twoTeamMarkup},
			errs:  map[string]error{passing.URL: boom},
		}
		p, store, m := newTestPipeline(t, f)

		outcomes, err := p.RunAll(context.Background(), pages, Options{Concurrency: 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
		assert.Equal(t, []string{passing.URL}, f.calls)
		assert.True(t, outcomes[1].Skipped)
		assert.False(t, store.Exists(stats.KindShooting))
		assert.Equal(t, int64(1), m.Counter("pipeline.failures"))
	})

	t.Run("keep going isolates kinds", func(t *testing.T) {
		f := &fakeFetcher{
			pages: map[string]string{shooting.URL: twoTeamMarkup},
			errs:  map[string]error{passing.URL: boom},
		}
		p, store, _ := newTestPipeline(t, f)

		outcomes, err := p.RunAll(context.Background(), pages, Options{KeepGoing: true})
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
		assert.Contains(t, err.Error(), "1 of 2 pages failed")

		assert.Error(t, outcomes[0].Err)
		assert.NoError(t, outcomes[1].Err)
		assert.NotNil(t, outcomes[1].Table)
		assert.True(t, store.Exists(stats.KindShooting))
		assert.Len(t, Tables(outcomes), 1)
	})

	t.Run("concurrent keeps input order", func(t *testing.T) {
		f := &fakeFetcher{pages: map[string]string{passing.URL: twoTeamMarkup, shooting.URL: twoTeamMarkup}}
		p, _, _ := newTestPipeline(t, f)

		outcomes, err := p.RunAll(context.Background(), pages, Options{Concurrency: 2})
		require.NoError(t, err)
		assert.Equal(t, stats.KindPassing, outcomes[0].Page.Kind)
		assert.Equal(t, stats.KindShooting, outcomes[1].Page.Kind)
		assert.Len(t, f.calls, 2)
	})
}

func TestRun_ThroughScraperFallback(t *testing.T) {
	fixture, err := os.ReadFile("../../testdata/fixtures/passing_stats.html")
	require.NoError(t, err)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write(fixture)
	}))
	defer server.Close()

	m := logger.NewMetrics()
	sc := scraper.New(
		scraper.WithLogger(logger.Discard()),
		scraper.WithMetrics(m),
		scraper.WithTransport(scraper.StrategyFallback, scraper.NewPrimaryTransport(scraper.Timeout)),
	)
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	p := New(sc, store, WithLogger(logger.Discard()), WithMetrics(m))

	table, _, err := p.Run(context.Background(), stats.Page{Kind: stats.KindPassing, URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int64(1), m.Counter("fetch.fallback"))
	assert.Equal(t, 4, table.Len())

	selected := report.Filter(table, []string{"Arsenal", "Nott'ham Forest"})
	assert.Equal(t, []string{"Arsenal", "Nott'ham Forest"}, selected.Squads())
}

package report

import (
	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

// Reporter runs report operations and logs their warnings
type Reporter struct {
	log *logger.Logger
}

// Option configures a Reporter
type Option func(*Reporter)

// WithLogger sets the logger handle
func WithLogger(l *logger.Logger) Option {
	return func(r *Reporter) {
		r.log = l
	}
}

// New creates a Reporter
func New(opts ...Option) *Reporter {
	r := &Reporter{log: logger.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filter returns the rows whose Squad is one of teams, in table order.
// A table without a Squad column yields an empty table.
func Filter(t *stats.Table, teams []string) *stats.Table {
	out := stats.NewTable(t.Kind, t.Columns)

	idx, ok := t.ColumnIndex(stats.SquadColumn)
	if !ok {
		return out
	}

	want := make(map[string]bool, len(teams))
	for _, team := range teams {
		want[team] = true
	}
	for _, row := range t.Rows {
		if want[row[idx]] {
			_ = out.AppendRow(row)
		}
	}

	return out
}

// Filter is the package Filter with warnings for teams that matched nothing
func (r *Reporter) Filter(t *stats.Table, teams []string) *stats.Table {
	out := Filter(t, teams)

	if !t.HasSquad() {
		r.log.Warn("Table has no Squad column", logger.Fields{"kind": string(t.Kind)})
		return out
	}

	found := make(map[string]bool, out.Len())
	for _, s := range out.Squads() {
		found[s] = true
	}
	squads := t.Squads()
	for _, team := range teams {
		if found[team] {
			continue
		}
		fields := logger.Fields{"kind": string(t.Kind), "team": team}
		if s, ok := Suggest(team, squads); ok {
			fields["did_you_mean"] = s
		}
		r.log.Warn("Team not found", fields)
	}

	if out.IsEmpty() {
		r.log.Warn("No matching teams", logger.Fields{"kind": string(t.Kind), "teams": teams})
	}

	return out
}

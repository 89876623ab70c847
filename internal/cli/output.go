package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pfrederiksen/league-stats/internal/pipeline"
	"github.com/pfrederiksen/league-stats/internal/report"
	"github.com/pfrederiksen/league-stats/internal/stats"
)

// KindResult is the outcome of fetching one statistic kind
type KindResult struct {
	Kind    stats.Kind `json:"kind"`
	URL     string     `json:"url"`
	Path    string     `json:"path,omitempty"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Squad   bool       `json:"has_squad"`
	Skipped bool       `json:"skipped,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// FetchResult contains data to be output after a fetch
type FetchResult struct {
	FetchedAt time.Time    `json:"fetched_at"`
	CacheDir  string       `json:"cache_dir"`
	Kinds     []KindResult `json:"kinds"`
}

func newFetchResult(cacheDir string, outcomes []pipeline.Outcome) *FetchResult {
	result := &FetchResult{
		FetchedAt: time.Now().UTC(),
		CacheDir:  cacheDir,
		Kinds:     make([]KindResult, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		kr := KindResult{
			Kind:    o.Page.Kind,
			URL:     o.Page.URL,
			Path:    o.Path,
			Skipped: o.Skipped,
		}
		if o.Table != nil {
			kr.Rows = o.Table.Len()
			kr.Columns = len(o.Table.Columns)
			kr.Squad = o.Table.HasSquad()
		}
		if o.Err != nil {
			kr.Error = o.Err.Error()
		}
		result.Kinds = append(result.Kinds, kr)
	}
	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *FetchResult, format report.Format) error {
	switch format {
	case report.FormatJSON:
		return writeJSON(w, result)
	case report.FormatText, report.FormatMarkdown:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *FetchResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as a human-readable table
func writeText(w io.Writer, result *FetchResult) error {
	fmt.Fprintf(w, "Fetched into %s\n", result.CacheDir)
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Kind", "Rows", "Columns", "File", "Status"})

	for _, k := range result.Kinds {
		status := "ok"
		switch {
		case k.Skipped:
			status = "skipped"
		case k.Error != "":
			status = "failed"
		case !k.Squad:
			status = "no Squad column"
		}
		tw.AppendRow(table.Row{k.Kind, k.Rows, k.Columns, k.Path, status})
	}

	tw.Render()
	return nil
}

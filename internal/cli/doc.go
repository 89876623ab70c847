// Package cli implements the command-line interface for league-stats.
//
// The cli package provides the Cobra-based command tree: fetch runs the
// retrieval pipeline into the CSV cache, compare/top/summary print reports,
// export and plot write a workbook and a chart, and run performs the whole
// flow end to end. Report commands fetch fresh tables unless --offline is
// given, in which case they read the cache written by an earlier fetch.
package cli

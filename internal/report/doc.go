// Package report builds comparisons, rankings, spreadsheets and charts from
// normalized statistics tables.
//
// Every operation tolerates an empty selection. A team filter that matches
// nothing produces a warning on the reporter's logger and an empty result;
// Compare and Summary then print nothing, ExportExcel writes a header-only
// sheet and PlotBar writes no file.
//
// Console output comes in three formats: text (rounded go-pretty tables),
// json and markdown.
package report

// Package storage provides the CSV cache for normalized statistics tables.
//
// Each statistic kind has one file, <dir>/<kind>_stats.csv, holding the full
// normalized table with a header row and no index column. Every write replaces
// the previous snapshot through a temp file and rename, so readers never see a
// partial file and repeated writes leave exactly one file behind. The default
// location is ./data_cache; a leading ~/ expands to the home directory.
package storage

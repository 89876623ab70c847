// Package stats defines the data model shared by the league-stats pipeline.
//
// A Page names one fixed FBref statistics table by its Kind ("passing" or
// "shooting"). Fetching a page yields markup, extraction turns the markup into a
// RawTable whose headers may span several rows, and normalization produces a
// Table with flat, unique column names. Tables are what the cache stores and the
// report layer consumes.
//
// The package also carries the error taxonomy used across the pipeline:
// NetworkError, ParseError, ConflictError and IOError.
package stats

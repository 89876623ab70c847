// Package pipeline runs fetch, extract, normalize and cache write for each
// statistics page.
//
// Pages run sequentially and the first failure aborts the run unless the
// caller asks for concurrency or keep-going. Each page's pipeline shares no
// state with the others besides the logger and metrics registry.
package pipeline

package stats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownColumn is returned when a report references a column the table does not have
var ErrUnknownColumn = errors.New("unknown column")

// NetworkError reports an unreachable host, a timeout, or a non-success
// status that survived the fetch fallback.
type NetworkError struct {
	URL        string
	StatusCode int    // 0 when no response was received
	Strategy   string // strategy that produced the final outcome
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetching %s", e.URL)
	if e.Strategy != "" {
		fmt.Fprintf(&b, " (%s)", e.Strategy)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": unexpected status code: %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports markup or table content that cannot be turned into a table
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing table: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing table: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConflictError reports two raw columns that resolve to the same column name
type ConflictError struct {
	Column  string
	Sources []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("column %q produced by more than one source column: %s",
		e.Column, strings.Join(e.Sources, ", "))
}

// IOError reports a cache or export write failure
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

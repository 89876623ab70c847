// Package normalize turns extracted tables into tables with flat, unique
// column names and a canonical Squad column.
//
// Resolution runs in two stages. The first stage applies a static rename
// table keyed on the placeholder names FBref emits for unlabeled header
// groups. The second stage runs only when the first produced no Squad
// column, and renames the first column containing "squad" in any case.
// A table where neither stage finds a Squad column is still valid; team
// filters over it simply match nothing.
package normalize

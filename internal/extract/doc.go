// Package extract parses HTML markup into raw tables.
//
// Header cells are laid out on a grid with colspan and rowspan expanded, so a
// column under a two-row header gets both texts ("Total", "Cmp%"). Blank cells
// of a multi-row header become "Unnamed: <col>_level_<row>" placeholders, the
// names the normalizer's rename map keys on.
//
// Tables are returned in document order; callers pick by position. When a page
// has no live table, tables shipped inside HTML comments are parsed instead.
package extract

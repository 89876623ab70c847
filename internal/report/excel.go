package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/league-stats/internal/logger"
	"github.com/pfrederiksen/league-stats/internal/stats"
	"github.com/pfrederiksen/league-stats/internal/storage"
)

// ExportExcel writes the rows of the requested teams to an .xlsx workbook.
// Numeric cells are stored as numbers. With no matching team the sheet holds
// only the header row.
func (r *Reporter) ExportExcel(path string, t *stats.Table, teams []string) error {
	selected := r.Filter(t, teams)
	if selected.IsEmpty() {
		r.log.Warn("Exporting header-only workbook", logger.Fields{"path": path})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if t.Kind != "" {
		if err := f.SetSheetName(sheet, string(t.Kind)); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
		sheet = string(t.Kind)
	}

	header := make([]interface{}, len(selected.Columns))
	for i, c := range selected.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, row := range selected.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			if n, ok := stats.ParseNumber(v); ok {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := storage.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	}); err != nil {
		return err
	}

	r.log.Info("Exported workbook", logger.Fields{"path": path, "rows": selected.Len()})
	return nil
}

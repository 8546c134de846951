package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"eclcli/internal/tabular"
)

// XLSXWriter writes tables as single-sheet Excel workbooks.
type XLSXWriter struct {
	SheetName string
}

// NewXLSXWriter creates an XLSX writer with a default sheet name.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{SheetName: "Data"}
}

// WriteTable writes the table to an .xlsx workbook at the given path.
// Numeric cells stay numeric; missing cells stay empty.
func (w *XLSXWriter) WriteTable(path string, table *tabular.Table) error {
	slog.Info("Writing XLSX file",
		slog.String("path", path),
		slog.Int("rows", table.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), w.SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(table.Columns()))
	for _, name := range table.Columns() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(w.SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i := 0; i < table.Len(); i++ {
		row := make([]interface{}, 0, len(table.Columns()))
		for _, cell := range table.Row(i) {
			if cell.IsNull() {
				row = append(row, nil)
			} else if v, ok := cell.Float64(); ok {
				row = append(row, v)
			} else {
				row = append(row, cell.String())
			}
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		if err := f.SetSheetRow(w.SheetName, anchor, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

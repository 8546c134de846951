// Package exporter serializes extracted tables to CSV and XLSX files. The
// core returns in-memory tables; everything about on-disk formats lives here.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"eclcli/internal/tabular"
)

// CSVWriter writes tables as CSV files.
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so spreadsheet tools recognize the encoding.
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteTable writes a table with a header row to the given path, creating
// parent directories as needed. Missing cells render as empty strings.
func (w *CSVWriter) WriteTable(path string, table *tabular.Table) error {
	slog.Info("Writing CSV file",
		slog.String("path", path),
		slog.Int("rows", table.Len()))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	if err := w.Write(file, table); err != nil {
		return err
	}
	return file.Close()
}

// Write streams a table with a header row to any writer, stdout included.
func (w *CSVWriter) Write(out io.Writer, table *tabular.Table) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(table.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

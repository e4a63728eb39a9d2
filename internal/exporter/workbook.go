package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"olympicstats/pkg/contracts/domain"
)

// PreviewSheetName is the first worksheet of every report workbook
const PreviewSheetName = "Top 50 Data"

// WorkbookSheet is one worksheet of a report workbook
type WorkbookSheet struct {
	Name  string
	Table domain.Tabular
}

// WorkbookWriter writes several tables into one XLSX file, one sheet each
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger.With(slog.String("component", "workbook_writer"))}
}

// Write saves sheets to path in the given order. Sheet names longer than 31
// characters are truncated; names that collide after truncation get a
// numeric suffix.
func (w *WorkbookWriter) Write(path string, sheets []WorkbookSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook %s: no sheets to write", filepath.Base(path))
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		name := uniqueSheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s.Table, header); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func writeSheet(f *excelize.File, name string, t domain.Tabular, headerStyle int) error {
	header := t.Header()
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &row); err != nil {
		return err
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, rec := range t.Records() {
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return err
		}
	}
	return nil
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := sheetName(name)
	for n := 2; used[candidate]; n++ {
		suffix := "~" + strconv.Itoa(n)
		runes := []rune(sheetName(name))
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[candidate] = true
	return candidate
}

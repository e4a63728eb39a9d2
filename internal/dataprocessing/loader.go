package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "olympicstats/internal/errors"
	"olympicstats/pkg/contracts/domain"
)

// SourceFormat is the layout of a source file
type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
)

// cancelCheckEvery is how many rows are read between context checks
const cancelCheckEvery = 1024

// naTokens are read as missing cells, matching the usual dataframe NA set
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// LoaderOptions tunes how sources are read
type LoaderOptions struct {
	// Sheet selects the worksheet of a spreadsheet source; empty means the first one
	Sheet string
}

// Loader reads an athlete-events source into memory
type Loader struct {
	logger *slog.Logger
	opts   LoaderOptions
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger, opts LoaderOptions) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		opts:   opts,
	}
}

// DetectFormat picks the source format from the file extension
func DetectFormat(path string) (SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", apperrors.NewParsingError(fmt.Sprintf("unsupported source extension %q", filepath.Ext(path)), nil)
	}
}

// Load reads the whole file at path. A missing or unreadable file is a
// DataSourceError, a malformed one a ParseError.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(path, err)
	}
	if info.IsDir() {
		return nil, apperrors.NewDataSourceError(path, fmt.Errorf("is a directory"))
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataSourceError(path, err)
	}
	defer f.Close()

	t, err := l.LoadReader(ctx, f, format)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}

	l.logger.InfoContext(ctx, "source loaded",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", t.Len()),
		slog.Int("columns", t.Width()))
	return t, nil
}

// LoadReader reads a source from r
func (l *Loader) LoadReader(ctx context.Context, r io.Reader, format SourceFormat) (*domain.Table, error) {
	var (
		t   *domain.Table
		err error
	)
	switch format {
	case FormatCSV:
		t, err = l.readCSV(ctx, r)
	case FormatXLSX:
		t, err = l.readXLSX(ctx, r)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported source format %q", format), nil)
	}
	if err != nil {
		return nil, err
	}

	if t.Len() == 0 {
		l.logger.WarnContext(ctx, "source has a header but no rows",
			slog.Any("columns", t.Columns()))
	}
	return t, nil
}

func (l *Loader) readCSV(ctx context.Context, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewRowParseError(1, "empty source: no header row")
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	b, err := newTableBuilder(header)
	if err != nil {
		return nil, err
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d: malformed record", line), err).
				WithContext("row", line)
		}
		if len(record) != b.width() {
			return nil, apperrors.NewRowParseError(line,
				fmt.Sprintf("expected %d fields, got %d", b.width(), len(record)))
		}
		if line%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b.add(record)
	}
	return b.table, nil
}

func (l *Loader) readXLSX(ctx context.Context, r io.Reader) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewRowParseError(1, fmt.Sprintf("sheet %q has no header row", sheet))
	}

	b, err := newTableBuilder(rows[0])
	if err != nil {
		return nil, err
	}

	for i, row := range rows[1:] {
		line := i + 2
		if len(row) > b.width() {
			return nil, apperrors.NewRowParseError(line,
				fmt.Sprintf("expected %d fields, got %d", b.width(), len(row)))
		}
		if blankRow(row) {
			continue
		}
		// GetRows trims trailing empty cells
		for len(row) < b.width() {
			row = append(row, "")
		}
		if line%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b.add(row)
	}
	return b.table, nil
}

// tableBuilder turns string records into typed rows
type tableBuilder struct {
	table   *domain.Table
	numeric []bool
}

func newTableBuilder(header []string) (*tableBuilder, error) {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	if blankRow(columns) {
		return nil, apperrors.NewRowParseError(1, "empty header row")
	}

	t := domain.NewTable(columns)
	if t.Width() != len(columns) {
		return nil, apperrors.NewRowParseError(1, "duplicate column names in header")
	}

	numeric := make([]bool, len(columns))
	for i, c := range columns {
		numeric[i] = domain.IsNumericSource(c)
	}
	return &tableBuilder{table: t, numeric: numeric}, nil
}

func (b *tableBuilder) width() int { return len(b.numeric) }

func (b *tableBuilder) add(record []string) {
	row := make(domain.Row, len(record))
	for i, cell := range record {
		row[i] = parseCell(cell, b.numeric[i])
	}
	// width was checked by the caller
	_ = b.table.AppendRow(row)
}

// parseCell maps NA tokens to missing and numeric-typed cells to numbers
func parseCell(cell string, numeric bool) domain.Value {
	if _, na := naTokens[cell]; na {
		return domain.MissingValue()
	}
	if numeric {
		if f, ok := parseNumber(cell); ok {
			return domain.NumberValue(f)
		}
	}
	return domain.TextValue(cell)
}

// parseNumber accepts finite decimal numbers surrounded by optional spaces
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"olympicstats/internal/config"
	apperrors "olympicstats/internal/errors"
)

// SheetsPublisher mirrors report tables into tabs of a Google spreadsheet
type SheetsPublisher struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

// NewSheetsPublisher creates a publisher for cfg.SpreadsheetID. Without
// extra client options the service account key in cfg.CredentialsFile is
// used.
func NewSheetsPublisher(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger, opts ...option.ClientOption) (*SheetsPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SpreadsheetID == "" {
		return nil, apperrors.NewConfigError("spreadsheet id is required to publish to Google Sheets", nil)
	}

	if len(opts) == 0 {
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to read Google credentials", err).
				WithContext("credentials_file", cfg.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsPublisher{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.With(slog.String("component", "sheets_publisher")),
	}, nil
}

// Publish replaces the content of one tab per sheet, creating missing tabs
func (p *SheetsPublisher) Publish(ctx context.Context, tabs []WorkbookSheet) error {
	if len(tabs) == 0 {
		return nil
	}

	spreadsheet, err := p.service.Spreadsheets.Get(p.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return apperrors.NewExportError("google sheets", err).WithContext("spreadsheet_id", p.spreadsheetID)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = true
		}
	}

	used := make(map[string]bool, len(tabs))
	titles := make([]string, len(tabs))
	var add []*sheets.Request
	for i, tab := range tabs {
		titles[i] = uniqueSheetName(tab.Name, used)
		if !existing[titles[i]] {
			add = append(add, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: titles[i]}},
			})
		}
	}
	if len(add) > 0 {
		_, err := p.service.Spreadsheets.BatchUpdate(p.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: add}).
			Context(ctx).
			Do()
		if err != nil {
			return apperrors.NewExportError("google sheets", err).WithContext("step", "add_sheets")
		}
	}

	for i, tab := range tabs {
		rng := a1Range(titles[i])
		if _, err := p.service.Spreadsheets.Values.Clear(p.spreadsheetID, rng, &sheets.ClearValuesRequest{}).
			Context(ctx).
			Do(); err != nil {
			return apperrors.NewExportError("google sheets", err).WithContext("sheet", titles[i])
		}

		values := make([][]interface{}, 0, len(tab.Table.Records())+1)
		header := make([]interface{}, 0, len(tab.Table.Header()))
		for _, h := range tab.Table.Header() {
			header = append(header, h)
		}
		values = append(values, header)
		for _, rec := range tab.Table.Records() {
			row := make([]interface{}, len(rec))
			for j, v := range rec {
				row[j] = cellValue(v)
			}
			values = append(values, row)
		}

		_, err := p.service.Spreadsheets.Values.Update(p.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return apperrors.NewExportError("google sheets", err).WithContext("sheet", titles[i])
		}
	}

	p.logger.InfoContext(ctx, "published to google sheets",
		slog.String("spreadsheet_id", p.spreadsheetID),
		slog.Int("tabs", len(tabs)),
		slog.Int("created", len(add)))
	return nil
}

// a1Range addresses a whole tab, quoting the title
func a1Range(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

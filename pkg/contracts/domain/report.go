package domain

import (
	"time"
)

// Report describes one export run over the cleaned table
type Report struct {
	ID          string         `json:"id" validate:"required,uuid"`
	Source      string         `json:"source" validate:"required"`
	Status      ReportStatus   `json:"status"`
	GeneratedAt time.Time      `json:"generated_at"`
	Duration    time.Duration  `json:"duration"`
	Outputs     []ReportOutput `json:"outputs"`
	Skipped     []AnalysisType `json:"skipped,omitempty"`
	Metadata    ReportMetadata `json:"metadata"`
}

// ReportStatus represents the status of a report run
type ReportStatus string

const (
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusPartial   ReportStatus = "partial"
	ReportStatusFailed    ReportStatus = "failed"
)

// ReportFormat defines an export format
type ReportFormat string

const (
	ReportFormatCSV    ReportFormat = "csv"
	ReportFormatExcel  ReportFormat = "excel"
	ReportFormatJSON   ReportFormat = "json"
	ReportFormatSheets ReportFormat = "sheets"
)

// ReportOutput is one artifact written by a report run
type ReportOutput struct {
	Analysis AnalysisType `json:"analysis,omitempty"`
	Format   ReportFormat `json:"format"`
	Path     string       `json:"path"`
	Rows     int          `json:"rows"`
}

// ReportMetadata contains metadata about a report run
type ReportMetadata struct {
	SourceRows  int `json:"source_rows"`
	CleanedRows int `json:"cleaned_rows"`
	Analyses    int `json:"analyses"`
}

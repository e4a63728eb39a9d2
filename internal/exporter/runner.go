package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"olympicstats/internal/config"
	"olympicstats/internal/dataprocessing"
	apperrors "olympicstats/internal/errors"
	"olympicstats/internal/infrastructure"
	"olympicstats/pkg/contracts/domain"
)

// Publisher pushes report tables to a remote destination
type Publisher interface {
	Publish(ctx context.Context, tabs []WorkbookSheet) error
}

// RunnerConfig selects what a report run writes
type RunnerConfig struct {
	Formats     []string
	IncludeBOM  bool
	PreviewRows int
	Workers     int
}

// RunnerConfigFrom maps the export section of the application config
func RunnerConfigFrom(cfg config.ExportConfig) RunnerConfig {
	return RunnerConfig{
		Formats:     cfg.Formats,
		IncludeBOM:  cfg.IncludeBOM,
		PreviewRows: cfg.PreviewRows,
		Workers:     cfg.Workers,
	}
}

func (c RunnerConfig) has(format domain.ReportFormat) bool {
	return config.ExportConfig{Formats: c.Formats}.HasFormat(string(format))
}

// RunInput is the cleaned table a report is built from
type RunInput struct {
	Source     string
	SourceRows int
	Cleaned    *domain.Table
}

// ReportRunner computes every planned aggregation and writes the report
// artifacts under the output directory
type ReportRunner struct {
	paths      *config.Paths
	summarizer *dataprocessing.Summarizer
	csv        *CSVWriter
	workbook   *WorkbookWriter
	json       *JSONWriter
	publisher  Publisher
	metrics    *infrastructure.BusinessMetrics
	cfg        RunnerConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewReportRunner creates a runner. publisher and metrics may be nil.
func NewReportRunner(
	paths *config.Paths,
	summarizer *dataprocessing.Summarizer,
	cfg RunnerConfig,
	publisher Publisher,
	metrics *infrastructure.BusinessMetrics,
	logger *slog.Logger,
) *ReportRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &ReportRunner{
		paths:      paths,
		summarizer: summarizer,
		csv:        NewCSVWriter(paths, cfg.IncludeBOM, logger),
		workbook:   NewWorkbookWriter(logger),
		json:       NewJSONWriter(),
		publisher:  publisher,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "report_runner")),
		now:        time.Now,
	}
}

// Run executes the plan concurrently, then writes the CSV files, the master
// cleaned CSV, the workbook, the JSON document and the Sheets tabs that the
// configuration enables. Aggregations with no rows are skipped.
func (r *ReportRunner) Run(ctx context.Context, in RunInput) (*domain.Report, error) {
	start := r.now()
	report := &domain.Report{
		ID:          uuid.NewString(),
		Source:      in.Source,
		Status:      domain.ReportStatusCompleted,
		GeneratedAt: start,
		Metadata: domain.ReportMetadata{
			SourceRows:  in.SourceRows,
			CleanedRows: in.Cleaned.Len(),
		},
	}
	logger := r.logger.With(slog.String("report_id", report.ID))

	if err := r.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewExportError(r.paths.RootDir, err)
	}

	plan := r.summarizer.Plan()
	results := make([]dataprocessing.Result, len(plan))
	csvOutputs := make([]*domain.ReportOutput, len(plan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, a := range plan {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.summarizer.Run(gctx, in.Cleaned, a)
			if err != nil {
				return err
			}
			r.metrics.RecordAggregation(gctx, string(a.Type), res.Duration, res.Rows)
			results[i] = res

			if res.Empty() || !r.cfg.has(domain.ReportFormatCSV) {
				return nil
			}
			path := r.paths.CSVPath(string(a.Type))
			if err := r.csv.WriteTable(path, res.Table); err != nil {
				return apperrors.NewExportError(path, err)
			}
			r.metrics.RecordExport(gctx, string(domain.ReportFormatCSV))
			csvOutputs[i] = &domain.ReportOutput{Analysis: a.Type, Format: domain.ReportFormatCSV, Path: path, Rows: res.Rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "report run failed", slog.String("error", err.Error()))
		return nil, err
	}

	var tabs []WorkbookSheet
	for i, res := range results {
		if res.Empty() {
			logger.InfoContext(ctx, "analysis skipped, no rows", slog.String("analysis", string(res.Type)))
			report.Skipped = append(report.Skipped, res.Type)
			continue
		}
		tabs = append(tabs, WorkbookSheet{Name: res.Title, Table: res.Table})
		if csvOutputs[i] != nil {
			report.Outputs = append(report.Outputs, *csvOutputs[i])
		}
	}
	report.Metadata.Analyses = len(tabs)

	if r.cfg.has(domain.ReportFormatCSV) {
		path := r.paths.MasterCSVPath()
		if err := r.csv.WriteCleanedTable(path, in.Cleaned); err != nil {
			return nil, apperrors.NewExportError(path, err)
		}
		r.metrics.RecordExport(ctx, string(domain.ReportFormatCSV))
		report.Outputs = append(report.Outputs, domain.ReportOutput{Format: domain.ReportFormatCSV, Path: path, Rows: in.Cleaned.Len()})
	}

	if r.cfg.has(domain.ReportFormatExcel) {
		preview := in.Cleaned.Head(r.cfg.PreviewRows)
		sheets := append([]WorkbookSheet{{Name: PreviewSheetName, Table: preview}}, tabs...)
		path := r.paths.WorkbookPath(start)
		if err := r.workbook.Write(path, sheets); err != nil {
			return nil, apperrors.NewExportError(path, err)
		}
		r.metrics.RecordExport(ctx, string(domain.ReportFormatExcel))
		report.Outputs = append(report.Outputs, domain.ReportOutput{Format: domain.ReportFormatExcel, Path: path, Rows: preview.Len()})
	}

	if r.cfg.has(domain.ReportFormatJSON) {
		doc := AnalysisDocument{
			RunID:       report.ID,
			GeneratedAt: start,
			Source:      in.Source,
			Analyses:    make(map[domain.AnalysisType][]map[string]interface{}, len(tabs)),
		}
		for _, res := range results {
			if !res.Empty() {
				doc.Analyses[res.Type] = r.json.Records(res.Table)
			}
		}
		path := r.paths.AnalysisJSONPath()
		if err := r.json.WriteDocument(path, doc); err != nil {
			return nil, apperrors.NewExportError(path, err)
		}
		r.metrics.RecordExport(ctx, string(domain.ReportFormatJSON))
		report.Outputs = append(report.Outputs, domain.ReportOutput{Format: domain.ReportFormatJSON, Path: path, Rows: len(doc.Analyses)})
	}

	if r.cfg.has(domain.ReportFormatSheets) {
		if err := r.publish(ctx, tabs); err != nil {
			logger.WarnContext(ctx, "google sheets publish failed", slog.String("error", err.Error()))
			report.Status = domain.ReportStatusPartial
		} else {
			r.metrics.RecordExport(ctx, string(domain.ReportFormatSheets))
			report.Outputs = append(report.Outputs, domain.ReportOutput{Format: domain.ReportFormatSheets, Rows: len(tabs)})
		}
	}

	report.Duration = r.now().Sub(start)
	logger.InfoContext(ctx, "report written",
		slog.String("status", string(report.Status)),
		slog.Int("outputs", len(report.Outputs)),
		slog.Int("skipped", len(report.Skipped)),
		slog.Duration("duration", report.Duration))
	return report, nil
}

func (r *ReportRunner) publish(ctx context.Context, tabs []WorkbookSheet) error {
	if r.publisher == nil {
		return fmt.Errorf("no publisher configured")
	}
	return r.publisher.Publish(ctx, tabs)
}

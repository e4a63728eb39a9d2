package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"olympicstats/internal/config"
	"olympicstats/internal/dataprocessing"
	apperrors "olympicstats/internal/errors"
	"olympicstats/internal/infrastructure"
	"olympicstats/pkg/contracts/domain"
)

// Row views served by Rows
const (
	ViewClean  = "clean"
	ViewRaw    = "raw"
	ViewScaled = "scaled"
)

// AnalysisServiceConfig locates the source and tunes loading and cleaning
type AnalysisServiceConfig struct {
	Source string
	Loader dataprocessing.LoaderOptions
	Clean  dataprocessing.CleanOptions
}

// AnalysisServiceConfigFrom maps the data section of the application config
func AnalysisServiceConfigFrom(cfg config.DataConfig) AnalysisServiceConfig {
	return AnalysisServiceConfig{
		Source: cfg.Source,
		Loader: dataprocessing.LoaderOptions{Sheet: cfg.Sheet},
		Clean: dataprocessing.CleanOptions{
			StripTeamSuffix:  cfg.StripTeamSuffix,
			StripEventPrefix: cfg.StripEventPrefix,
			ExtractNickname:  cfg.ExtractNickname,
		},
	}
}

// Dataset is the loaded source and its cleaned form. Both tables are
// read-only once published.
type Dataset struct {
	Source   string
	Raw      *domain.Table
	Cleaned  *domain.Table
	Report   *dataprocessing.CleanReport
	LoadedAt time.Time
}

// AnalysisService loads and cleans the source exactly once and answers
// filter and aggregation calls against the cleaned table. A load failure
// is kept and returned to every later caller.
type AnalysisService struct {
	cfg     AnalysisServiceConfig
	loader  *dataprocessing.Loader
	cleaner *dataprocessing.Cleaner
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger

	once    sync.Once
	done    atomic.Bool
	dataset *Dataset
	err     error
}

// NewAnalysisService creates the service. metrics may be nil.
func NewAnalysisService(cfg AnalysisServiceConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AnalysisService{
		cfg:     cfg,
		loader:  dataprocessing.NewLoader(logger, cfg.Loader),
		cleaner: dataprocessing.NewCleaner(logger, cfg.Clean),
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.MeterName),
		logger:  logger.With(slog.String("component", "analysis_service")),
	}

	s.logger.Info("AnalysisService initialized",
		slog.String("source", cfg.Source),
		slog.Bool("extract_nickname", cfg.Clean.ExtractNickname))
	return s
}

// NewAnalysisServiceFromTable serves an already loaded table, skipping the
// source file
func NewAnalysisServiceFromTable(source string, raw *domain.Table, cfg AnalysisServiceConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	cfg.Source = source
	s := NewAnalysisService(cfg, metrics, logger)
	s.once.Do(func() {
		s.dataset, s.err = s.clean(context.Background(), raw)
		s.done.Store(true)
	})
	return s
}

// Dataset returns the loaded and cleaned dataset, loading it on first use.
// Cancelling ctx does not abort a load other callers may be waiting on.
func (s *AnalysisService) Dataset(ctx context.Context) (*Dataset, error) {
	s.once.Do(func() {
		s.dataset, s.err = s.load(context.WithoutCancel(ctx))
		s.done.Store(true)
	})
	return s.dataset, s.err
}

// Loaded reports whether the first load has finished and whether it
// succeeded
func (s *AnalysisService) Loaded() (done bool, err error) {
	if !s.done.Load() {
		return false, nil
	}
	return true, s.err
}

func (s *AnalysisService) load(ctx context.Context) (*Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load", trace.WithAttributes(attribute.String("source", s.cfg.Source)))
	defer span.End()

	start := time.Now()
	raw, err := s.loader.Load(ctx, s.cfg.Source)
	s.metrics.RecordStage(ctx, "load", time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", s.cfg.Source),
			slog.String("error", err.Error()))
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RowsLoaded.Add(ctx, int64(raw.Len()))
	}
	return s.clean(ctx, raw)
}

func (s *AnalysisService) clean(ctx context.Context, raw *domain.Table) (*Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.clean")
	defer span.End()

	cleaned, report := s.cleaner.Clean(ctx, raw)
	s.metrics.RecordStage(ctx, "clean", report.Duration, nil)
	if s.metrics != nil {
		s.metrics.DuplicatesRemoved.Add(ctx, int64(report.DuplicatesRemoved))
		s.metrics.CellsImputed.Add(ctx, int64(report.CellsImputed()))
		s.metrics.CellsCapped.Add(ctx, int64(report.CellsCapped()))
	}
	for _, w := range report.Warnings() {
		s.logger.WarnContext(ctx, "cleaning step skipped", slog.String("warning", w.Error()))
	}

	span.SetAttributes(
		attribute.Int("rows.in", report.InputRows),
		attribute.Int("rows.out", report.OutputRows))
	s.logger.InfoContext(ctx, "dataset ready",
		slog.String("source", s.cfg.Source),
		slog.Int("raw_rows", raw.Len()),
		slog.Int("clean_rows", cleaned.Len()))

	return &Dataset{
		Source:   s.cfg.Source,
		Raw:      raw,
		Cleaned:  cleaned,
		Report:   report,
		LoadedAt: time.Now(),
	}, nil
}

// Rows returns the first limit rows of the clean, raw or scaled table. The
// scaled view is the cleaned table with z-scored measurements. A limit of
// zero or less returns every row.
func (s *AnalysisService) Rows(ctx context.Context, view string, limit int) (*domain.Table, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	var t *domain.Table
	switch view {
	case "", ViewClean:
		t = ds.Cleaned
	case ViewRaw:
		t = ds.Raw
	case ViewScaled:
		t = dataprocessing.StandardScale(ds.Cleaned)
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown view %q", view)).
			WithContext("view", view)
	}
	if limit <= 0 {
		return t, nil
	}
	return t.Head(limit), nil
}

// CleanReport returns the audit of the one cleaning run
func (s *AnalysisService) CleanReport(ctx context.Context) (*dataprocessing.CleanReport, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Report, nil
}

// FilterNumeric applies threshold criteria to the cleaned table
func (s *AnalysisService) FilterNumeric(ctx context.Context, c dataprocessing.NumericCriteria) (*domain.Table, error) {
	return s.filter(ctx, "numeric", func(t *domain.Table) (*domain.Table, error) {
		return dataprocessing.FilterNumeric(t, c)
	})
}

// FilterCategorical applies equality criteria to the cleaned table
func (s *AnalysisService) FilterCategorical(ctx context.Context, c dataprocessing.CategoricalCriteria) (*domain.Table, error) {
	return s.filter(ctx, "categorical", func(t *domain.Table) (*domain.Table, error) {
		return dataprocessing.FilterCategorical(t, c)
	})
}

// FilterMedal keeps rows with the given medal
func (s *AnalysisService) FilterMedal(ctx context.Context, medal string) (*domain.Table, error) {
	return s.filter(ctx, "medal", func(t *domain.Table) (*domain.Table, error) {
		return dataprocessing.FilterMedal(t, medal)
	})
}

// FilterSeasonYear keeps rows of one season and/or year
func (s *AnalysisService) FilterSeasonYear(ctx context.Context, season *string, year *int) (*domain.Table, error) {
	return s.filter(ctx, "season", func(t *domain.Table) (*domain.Table, error) {
		return dataprocessing.FilterSeasonYear(t, season, year)
	})
}

func (s *AnalysisService) filter(ctx context.Context, kind string, apply func(*domain.Table) (*domain.Table, error)) (*domain.Table, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	out, err := apply(ds.Cleaned)
	if err != nil {
		return nil, err
	}
	infrastructure.LoggerFromContext(ctx).DebugContext(ctx, "filter applied",
		slog.String("filter", kind),
		slog.Int("rows", out.Len()))
	return out, nil
}

// Aggregate runs one registered aggregation over the cleaned table
func (s *AnalysisService) Aggregate(ctx context.Context, analysis domain.AnalysisType, params dataprocessing.AnalysisParams) (dataprocessing.Result, error) {
	a, err := dataprocessing.LookupAnalysis(string(analysis))
	if err != nil {
		return dataprocessing.Result{}, err
	}
	ds, err := s.Dataset(ctx)
	if err != nil {
		return dataprocessing.Result{}, err
	}

	ctx, span := s.tracer.Start(ctx, "aggregate", trace.WithAttributes(attribute.String("analysis", string(analysis))))
	defer span.End()

	start := time.Now()
	table, err := a.Run(ds.Cleaned, params)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return dataprocessing.Result{}, err
	}
	res := dataprocessing.Result{
		Type:     a.Type,
		Title:    a.Title,
		Table:    table,
		Rows:     len(table.Records()),
		Duration: time.Since(start),
	}
	s.metrics.RecordAggregation(ctx, string(a.Type), res.Duration, res.Rows)
	return res, nil
}

package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	apperrors "olympicstats/internal/errors"
	"olympicstats/pkg/contracts/domain"
)

// Cleaning step names, in execution order
const (
	StepDeduplicate    = "deduplicate"
	StepCoerce         = "coerce"
	StepImpute         = "impute"
	StepNormalizeMedal = "normalize_medal"
	StepCapOutliers    = "cap_outliers"
	StepTeamSuffix     = "strip_team_suffix"
	StepEventPrefix    = "strip_event_prefix"
	StepNickname       = "extract_nickname"
)

// CleanOptions toggles the presentation pass that runs after the five
// cleaning steps. None of it affects aggregation results.
type CleanOptions struct {
	StripTeamSuffix  bool
	StripEventPrefix bool
	ExtractNickname  bool
}

// DefaultCleanOptions strips team suffixes and event prefixes and leaves
// names alone
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		StripTeamSuffix:  true,
		StripEventPrefix: true,
	}
}

// ImputedColumn records the fill applied to one column
type ImputedColumn struct {
	Column string `json:"column"`
	Fill   string `json:"fill"`
	Cells  int    `json:"cells"`
}

// CappedColumn records the Tukey fences applied to one measurement column
type CappedColumn struct {
	Column string  `json:"column"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Lower  float64 `json:"lower_fence"`
	Upper  float64 `json:"upper_fence"`
	Cells  int     `json:"cells_clamped"`
}

// SkippedStep is a step that could not run because its columns are absent
type SkippedStep struct {
	Step    string   `json:"step"`
	Columns []string `json:"columns"`
	Reason  string   `json:"reason"`
}

// CleanReport audits one Clean call
type CleanReport struct {
	InputRows         int             `json:"input_rows"`
	OutputRows        int             `json:"output_rows"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	CoercedToMissing  map[string]int  `json:"coerced_to_missing"`
	Imputed           []ImputedColumn `json:"imputed"`
	MedalsNormalized  int             `json:"medals_normalized"`
	UnknownMedals     int             `json:"unknown_medals"`
	Capped            []CappedColumn  `json:"capped"`
	TeamsStripped     int             `json:"teams_stripped"`
	EventsStripped    int             `json:"events_stripped"`
	NicknamesFound    int             `json:"nicknames_found"`
	Skipped           []SkippedStep   `json:"skipped,omitempty"`
	Duration          time.Duration   `json:"duration"`

	warnings []error
}

// Warnings returns the schema errors of skipped steps
func (r *CleanReport) Warnings() []error {
	return r.warnings
}

// CellsImputed sums imputed cells over all columns
func (r *CleanReport) CellsImputed() int {
	n := 0
	for _, c := range r.Imputed {
		n += c.Cells
	}
	return n
}

// CellsCapped sums clamped cells over all measurement columns
func (r *CleanReport) CellsCapped() int {
	n := 0
	for _, c := range r.Capped {
		n += c.Cells
	}
	return n
}

func (r *CleanReport) skip(step string, columns ...string) {
	err := apperrors.NewSchemaError(step, columns...)
	r.warnings = append(r.warnings, err)
	r.Skipped = append(r.Skipped, SkippedStep{Step: step, Columns: columns, Reason: err.Message})
}

// Cleaner turns a raw athlete-events table into the canonical cleaned table.
// It is safe for concurrent use; Clean never mutates its input.
type Cleaner struct {
	logger *slog.Logger
	opts   CleanOptions
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger, opts CleanOptions) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger: logger.With(slog.String("component", "cleaner")),
		opts:   opts,
	}
}

// Clean runs deduplication, coercion, imputation, medal normalization and
// outlier capping in that order, then the optional presentation pass.
// A step whose column is missing is skipped and reported, never fatal.
func (c *Cleaner) Clean(ctx context.Context, raw *domain.Table) (*domain.Table, *CleanReport) {
	start := time.Now()
	report := &CleanReport{
		InputRows:        raw.Len(),
		CoercedToMissing: make(map[string]int),
	}

	t := deduplicate(raw, report)
	t = t.Clone()

	coerceMeasurements(t, report)
	impute(t, report)
	normalizeMedals(t, report)
	capOutliers(t, report)

	if c.opts.StripTeamSuffix {
		stripTeamSuffix(t, report)
	}
	if c.opts.StripEventPrefix {
		stripEventPrefix(t, report)
	}
	if c.opts.ExtractNickname {
		t = extractNicknames(t, report)
	}

	report.OutputRows = t.Len()
	report.Duration = time.Since(start)

	for _, s := range report.Skipped {
		c.logger.WarnContext(ctx, "cleaning step skipped",
			slog.String("step", s.Step),
			slog.Any("columns", s.Columns))
	}
	if report.UnknownMedals > 0 {
		c.logger.WarnContext(ctx, "unrecognised medal labels replaced with sentinel",
			slog.Int("cells", report.UnknownMedals))
	}
	c.logger.InfoContext(ctx, "table cleaned",
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("cells_imputed", report.CellsImputed()),
		slog.Int("cells_capped", report.CellsCapped()),
		slog.Duration("duration", report.Duration))

	return t, report
}

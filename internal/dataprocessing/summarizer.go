package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "olympicstats/internal/errors"
	"olympicstats/pkg/contracts/domain"
)

// AnalysisParams carries the optional inputs of the aggregations
type AnalysisParams struct {
	NOC           string
	TopN          int
	Season        *string
	PhysiqueOrder PhysiqueOrder
}

// Analysis is one registered aggregation of the cleaned table
type Analysis struct {
	Type     domain.AnalysisType
	Title    string
	NeedsNOC bool
	run      func(t *domain.Table, p AnalysisParams) (domain.Tabular, error)
}

// Run executes the aggregation
func (a Analysis) Run(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
	if a.NeedsNOC && NormalizeNOC(p.NOC) == "" {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("%s requires a NOC code", a.Type))
	}
	return a.run(t, p)
}

var registry = []Analysis{
	{Type: domain.AnalysisOverview, Title: "Dataset overview", run: func(t *domain.Table, _ AnalysisParams) (domain.Tabular, error) {
		return DatasetOverview(t)
	}},
	{Type: domain.AnalysisMedalTally, Title: "Medal tally", run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return MedalTally(t, p.TopN)
	}},
	{Type: domain.AnalysisGender, Title: "Gender participation by year", run: func(t *domain.Table, _ AnalysisParams) (domain.Tabular, error) {
		return GenderParticipation(t)
	}},
	{Type: domain.AnalysisAgeGroups, Title: "Medals and participants by age group", run: func(t *domain.Table, _ AnalysisParams) (domain.Tabular, error) {
		return MedalsByAgeGroup(t)
	}},
	{Type: domain.AnalysisPhysicalSummary, Title: "Physical summary", run: func(t *domain.Table, _ AnalysisParams) (domain.Tabular, error) {
		return PhysicalSummary(t)
	}},
	{Type: domain.AnalysisPhysiqueBySport, Title: "Physique by sport", run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return PhysiqueBySport(t, p.PhysiqueOrder)
	}},
	{Type: domain.AnalysisDominantSports, Title: "Dominant sports by team", run: func(t *domain.Table, _ AnalysisParams) (domain.Tabular, error) {
		return DominantSports(t)
	}},
	{Type: domain.AnalysisNationsPerGames, Title: "Nations per Games", run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return NationsPerGames(t, p.Season)
	}},
	{Type: domain.AnalysisTopSports, Title: "Top sports by participation", run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return TopSportsByParticipation(t, p.TopN)
	}},
	{Type: domain.AnalysisCountry, Title: "Country performance and host years", NeedsNOC: true, run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return CountryPerformance(t, p.NOC)
	}},
	{Type: domain.AnalysisNationAthletes, Title: "Nation participation", NeedsNOC: true, run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return NationParticipation(t, p.NOC)
	}},
	{Type: domain.AnalysisNationMedals, Title: "Nation medals", NeedsNOC: true, run: func(t *domain.Table, p AnalysisParams) (domain.Tabular, error) {
		return NationMedals(t, p.NOC)
	}},
}

// Analyses returns every registered aggregation in report order
func Analyses() []Analysis {
	out := make([]Analysis, len(registry))
	copy(out, registry)
	return out
}

// LookupAnalysis finds an aggregation by name
func LookupAnalysis(name string) (Analysis, error) {
	for _, a := range registry {
		if string(a.Type) == name {
			return a, nil
		}
	}
	return Analysis{}, apperrors.NewNotFoundError(fmt.Sprintf("analysis %q", name)).
		WithContext("analysis", name)
}

// Result is the output of one aggregation run
type Result struct {
	Type     domain.AnalysisType `json:"type"`
	Title    string              `json:"title"`
	Table    domain.Tabular      `json:"data"`
	Rows     int                 `json:"rows"`
	Duration time.Duration       `json:"duration"`
}

// Empty reports whether the aggregation produced no rows
func (r Result) Empty() bool { return r.Rows == 0 }

// SummarizerConfig holds configuration options for the Summarizer
type SummarizerConfig struct {
	// FocusNOC enables the single-nation analyses for this country
	FocusNOC      string
	TopN          int
	PhysiqueOrder PhysiqueOrder
}

// Summarizer runs the registered aggregations over a cleaned table
type Summarizer struct {
	logger *slog.Logger
	params AnalysisParams
}

// NewSummarizer creates a summarizer. A nil logger uses the default one.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PhysiqueOrder == "" {
		config.PhysiqueOrder = PhysiqueByWeight
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		params: AnalysisParams{
			NOC:           NormalizeNOC(config.FocusNOC),
			TopN:          config.TopN,
			PhysiqueOrder: config.PhysiqueOrder,
		},
	}
}

// Plan lists the aggregations Summarize will run. Single-nation analyses
// are included only when a focus NOC is configured.
func (s *Summarizer) Plan() []Analysis {
	var plan []Analysis
	for _, a := range registry {
		if a.NeedsNOC && s.params.NOC == "" {
			continue
		}
		plan = append(plan, a)
	}
	return plan
}

// Run executes one aggregation with the summarizer's parameters
func (s *Summarizer) Run(ctx context.Context, t *domain.Table, a Analysis) (Result, error) {
	start := time.Now()
	table, err := a.Run(t, s.params)
	if err != nil {
		s.logger.ErrorContext(ctx, "analysis failed",
			slog.String("analysis", string(a.Type)),
			slog.String("error", err.Error()))
		return Result{}, fmt.Errorf("analysis %s: %w", a.Type, err)
	}

	res := Result{
		Type:     a.Type,
		Title:    a.Title,
		Table:    table,
		Rows:     len(table.Records()),
		Duration: time.Since(start),
	}
	if res.Empty() {
		s.logger.InfoContext(ctx, "analysis produced no rows",
			slog.String("analysis", string(a.Type)),
			slog.String("warning", apperrors.NewEmptyResultWarning(string(a.Type)).Error()))
	} else {
		s.logger.DebugContext(ctx, "analysis completed",
			slog.String("analysis", string(a.Type)),
			slog.Int("rows", res.Rows),
			slog.Duration("duration", res.Duration))
	}
	return res, nil
}

// Summarize runs the whole plan in order and stops at the first error
func (s *Summarizer) Summarize(ctx context.Context, t *domain.Table) ([]Result, error) {
	plan := s.Plan()
	s.logger.InfoContext(ctx, "running analyses",
		slog.Int("analyses", len(plan)),
		slog.Int("rows", t.Len()),
		slog.String("focus_noc", s.params.NOC))

	results := make([]Result, 0, len(plan))
	for _, a := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := s.Run(ctx, t, a)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

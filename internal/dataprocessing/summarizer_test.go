package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "olympicstats/internal/errors"
	"olympicstats/internal/shared/testutil"
	"olympicstats/pkg/contracts/domain"
)

func TestAnalysesRegistry(t *testing.T) {
	all := Analyses()
	require.Len(t, all, 12)
	assert.Equal(t, domain.AnalysisOverview, all[0].Type)

	seen := make(map[domain.AnalysisType]bool)
	nationOnly := 0
	for _, a := range all {
		assert.False(t, seen[a.Type], "duplicate analysis %s", a.Type)
		seen[a.Type] = true
		assert.NotEmpty(t, a.Title)
		if a.NeedsNOC {
			nationOnly++
		}
	}
	assert.Equal(t, 3, nationOnly)

	all[0].Title = "changed"
	assert.Equal(t, "Dataset overview", Analyses()[0].Title, "callers get a copy")
}

func TestLookupAnalysis(t *testing.T) {
	a, err := LookupAnalysis("medal_tally")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisMedalTally, a.Type)

	_, err = LookupAnalysis("medal_table")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestAnalysis_RunRequiresNOC(t *testing.T) {
	a, err := LookupAnalysis(string(domain.AnalysisNationMedals))
	require.NoError(t, err)

	_, err = a.Run(cleanedSample(t), AnalysisParams{NOC: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	out, err := a.Run(cleanedSample(t), AnalysisParams{NOC: "ger"})
	require.NoError(t, err)
	assert.Len(t, out.Records(), 1)
}

func TestSummarizer_Plan(t *testing.T) {
	without := NewSummarizer(nil, SummarizerConfig{})
	assert.Len(t, without.Plan(), 9)
	for _, a := range without.Plan() {
		assert.False(t, a.NeedsNOC)
	}

	with := NewSummarizer(nil, SummarizerConfig{FocusNOC: "fra"})
	assert.Len(t, with.Plan(), 12)
}

func TestSummarizer_Summarize(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, SummarizerConfig{FocusNOC: "fra", TopN: 3})

	results, err := s.Summarize(context.Background(), cleanedSample(t))
	require.NoError(t, err)
	require.Len(t, results, 12)

	for i, a := range Analyses() {
		assert.Equal(t, a.Type, results[i].Type)
		assert.Equal(t, a.Title, results[i].Title)
		assert.Equal(t, len(results[i].Table.Records()), results[i].Rows)
	}

	tally := results[1]
	require.Equal(t, domain.AnalysisMedalTally, tally.Type)
	assert.Equal(t, 3, tally.Rows, "TopN caps the tally")
	assert.Equal(t, "FRA", tally.Table.Records()[0][0])

	medals := results[11]
	assert.Equal(t, 5, medals.Rows)

	testutil.AssertNoErrors(t, logs)
	testutil.AssertLogAttr(t, logs, "focus_noc", "FRA")
	testutil.AssertLogAttr(t, logs, "component", "summarizer")
}

func TestSummarizer_EmptyTable(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, SummarizerConfig{FocusNOC: "VIE"})

	results, err := s.Summarize(context.Background(), domain.NewTable(domain.AthleteEventColumns))
	require.NoError(t, err)
	require.Len(t, results, 12)

	empty := 0
	for _, r := range results {
		if r.Empty() {
			empty++
		}
	}
	// the overview always has its metric rows
	assert.Equal(t, 11, empty)
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "analysis produced no rows")
}

func TestSummarizer_Errors(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	s := NewSummarizer(logger, SummarizerConfig{})

	_, err := s.Summarize(context.Background(), withoutColumn(t, cleanedSample(t), domain.ColumnNOC))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "analysis overview")
	testutil.AssertLogContains(t, logs, slog.LevelError, "analysis failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Summarize(ctx, cleanedSample(t))
	assert.ErrorIs(t, err, context.Canceled)
}

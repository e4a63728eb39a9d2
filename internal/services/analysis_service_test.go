package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"olympicstats/internal/dataprocessing"
	apperrors "olympicstats/internal/errors"
	"olympicstats/internal/infrastructure"
	"olympicstats/internal/shared/testutil"
	"olympicstats/pkg/contracts/domain"
)

func newSampleService(t *testing.T) *AnalysisService {
	t.Helper()
	path := testutil.WriteAthleteCSV(t, t.TempDir(), "athlete_events.csv", testutil.SampleAthletes()...)
	return NewAnalysisService(AnalysisServiceConfig{
		Source: path,
		Clean:  dataprocessing.DefaultCleanOptions(),
	}, nil, nil)
}

func TestAnalysisService_LoadsOnce(t *testing.T) {
	svc := newSampleService(t)

	done, err := svc.Loaded()
	assert.False(t, done)
	assert.NoError(t, err)

	var wg sync.WaitGroup
	datasets := make([]*Dataset, 8)
	for i := range datasets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := svc.Dataset(context.Background())
			assert.NoError(t, err)
			datasets[i] = ds
		}()
	}
	wg.Wait()

	for _, ds := range datasets {
		assert.Same(t, datasets[0], ds)
	}
	assert.Equal(t, 12, datasets[0].Raw.Len())
	assert.Equal(t, 11, datasets[0].Cleaned.Len())
	assert.Equal(t, 1, datasets[0].Report.DuplicatesRemoved)

	done, err = svc.Loaded()
	assert.True(t, done)
	assert.NoError(t, err)
}

func TestAnalysisService_LoadFailureIsCached(t *testing.T) {
	svc := NewAnalysisService(AnalysisServiceConfig{
		Source: filepath.Join(t.TempDir(), "missing.csv"),
	}, nil, nil)

	_, err := svc.Dataset(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDataSource))

	_, again := svc.Aggregate(context.Background(), domain.AnalysisOverview, dataprocessing.AnalysisParams{})
	assert.Same(t, err, again, "every caller gets the first failure")

	done, loadErr := svc.Loaded()
	assert.True(t, done)
	assert.Equal(t, err, loadErr)
}

func TestAnalysisService_CancelledCallerDoesNotPoisonLoad(t *testing.T) {
	svc := newSampleService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := svc.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, ds.Cleaned.Len())
}

func TestAnalysisService_Rows(t *testing.T) {
	svc := newSampleService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		view  string
		limit int
		want  int
	}{
		{"clean by default", "", 0, 11},
		{"clean limited", ViewClean, 3, 3},
		{"raw keeps duplicates", ViewRaw, 0, 12},
		{"limit above size", ViewRaw, 100, 12},
		{"scaled", ViewScaled, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := svc.Rows(ctx, tt.view, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows.Len())
		})
	}

	_, err := svc.Rows(ctx, "pivot", 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAnalysisService_Filters(t *testing.T) {
	svc := newSampleService(t)
	ctx := context.Background()

	age := 25.0
	out, err := svc.FilterNumeric(ctx, dataprocessing.NumericCriteria{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Len())

	noc := "fra"
	out, err = svc.FilterCategorical(ctx, dataprocessing.CategoricalCriteria{NOC: &noc})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())

	out, err = svc.FilterMedal(ctx, "gold")
	require.NoError(t, err)
	assert.Equal(t, 6, out.Len())

	season, year := "Summer", 2012
	out, err = svc.FilterSeasonYear(ctx, &season, &year)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestAnalysisService_Aggregate(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	metrics, err := infrastructure.CreateBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	path := testutil.WriteAthleteCSV(t, t.TempDir(), "athlete_events.csv", testutil.SampleAthletes()...)
	svc := NewAnalysisService(AnalysisServiceConfig{Source: path, Clean: dataprocessing.DefaultCleanOptions()}, metrics, nil)
	ctx := context.Background()

	res, err := svc.Aggregate(ctx, domain.AnalysisMedalTally, dataprocessing.AnalysisParams{TopN: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisMedalTally, res.Type)
	assert.Equal(t, 2, res.Rows)
	tally := res.Table.(domain.MedalTally)
	assert.Equal(t, "FRA", tally[0].NOC)

	res, err = svc.Aggregate(ctx, domain.AnalysisNationMedals, dataprocessing.AnalysisParams{NOC: "VIE"})
	require.NoError(t, err)
	assert.True(t, res.Empty())

	// GBR hosted 2012 without winning there; the host year is still a row
	res, err = svc.Aggregate(ctx, domain.AnalysisCountry, dataprocessing.AnalysisParams{NOC: "GBR"})
	require.NoError(t, err)
	assert.False(t, res.Empty())
	assert.Equal(t, 1, res.Rows)

	_, err = svc.Aggregate(ctx, domain.AnalysisNationMedals, dataprocessing.AnalysisParams{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = svc.Aggregate(ctx, "bogus", dataprocessing.AnalysisParams{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(12), sums["pipeline_rows_loaded_total"])
	assert.Equal(t, int64(1), sums["pipeline_duplicates_removed_total"])
	assert.Equal(t, int64(2), sums["aggregations_total"])
}

func TestAnalysisService_FromTable(t *testing.T) {
	raw := testutil.AthleteTable(t, testutil.SampleAthletes()...)
	svc := NewAnalysisServiceFromTable("memory", raw, AnalysisServiceConfig{Clean: dataprocessing.DefaultCleanOptions()}, nil, nil)

	done, err := svc.Loaded()
	assert.True(t, done)
	require.NoError(t, err)

	report, err := svc.CleanReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.InputRows)
	assert.Equal(t, 11, report.OutputRows)
}

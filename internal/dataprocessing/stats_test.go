package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/pkg/contracts/domain"
)

func TestQuantile(t *testing.T) {
	xs := []float64{20, 22, 24, 26, 1000}
	assert.Equal(t, 22.0, quantile(xs, 0.25))
	assert.Equal(t, 24.0, quantile(xs, 0.5))
	assert.Equal(t, 26.0, quantile(xs, 0.75))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.75))
	assert.Equal(t, 2.5, quantile([]float64{1, 2, 3, 4}, 0.5))
}

func TestTukeyFences(t *testing.T) {
	q1, q3, lower, upper := tukeyFences([]float64{1000, 26, 24, 22, 20})
	assert.Equal(t, []float64{22, 26, 16, 32}, []float64{q1, q3, lower, upper})
}

func TestMeanAndStddev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mu := mean(xs)
	assert.Equal(t, 5.0, mu)
	assert.Equal(t, 2.0, stddev(xs, mu))
	assert.True(t, math.IsNaN(mean(nil)))
}

func TestMode(t *testing.T) {
	table := domain.NewTable([]string{"Team"})
	for _, v := range []domain.Value{
		domain.TextValue("Kenya"),
		domain.MissingValue(),
		domain.TextValue("Brazil"),
		domain.TextValue("Kenya"),
		domain.TextValue("Brazil"),
		domain.MissingValue(),
		domain.MissingValue(),
	} {
		require.NoError(t, table.AppendRow(domain.Row{v}))
	}

	got, ok := mode(table, 0)
	require.True(t, ok)
	assert.Equal(t, domain.TextValue("Brazil"), got, "missing cells never win and ties pick the smallest")

	blank := domain.NewTable([]string{"Team"})
	require.NoError(t, blank.AppendRow(domain.Row{domain.MissingValue()}))
	_, ok = mode(blank, 0)
	assert.False(t, ok)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 176.22, round(1586.0/9.0, 2))
	assert.Equal(t, 0.13, round(0.125, 2))
}

func TestCentFences(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper float64
		lo, hi       float64
		ok           bool
	}{
		{"already whole cents", 16, 32, 16, 32, true},
		{"narrowed inward", -37.50375, 62.52625, -37.5, 62.52, true},
		{"no cent inside", 1.234, 1.236, 1.24, 1.23, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := centFences(tt.lower, tt.upper)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.lo, lo, 1e-9)
			assert.InDelta(t, tt.hi, hi, 1e-9)
			if ok {
				assert.GreaterOrEqual(t, lo, tt.lower)
				assert.LessOrEqual(t, hi, tt.upper)
			}
		})
	}
}

package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"olympicstats/internal/shared/testutil"
	"olympicstats/pkg/contracts/domain"
)

// cleanedSample is SampleAthletes after the default cleaning run. Row order
// by ID: 1 2 3 4 5 6 7 8 9 10 11.
func cleanedSample(t *testing.T) *domain.Table {
	t.Helper()
	cleaned, report := NewCleaner(nil, DefaultCleanOptions()).
		Clean(context.Background(), testutil.AthleteTable(t, testutil.SampleAthletes()...))
	require.Equal(t, 11, report.OutputRows)
	return cleaned
}

// ids lists the ID column of table in row order
func ids(t *testing.T, table *domain.Table) []int {
	t.Helper()
	out := make([]int, table.Len())
	for i := range out {
		id, ok := table.Value(i, domain.ColumnID).Int()
		require.True(t, ok)
		out[i] = id
	}
	return out
}

func withoutColumn(t *testing.T, table *domain.Table, column string) *domain.Table {
	t.Helper()
	var keep []string
	for _, c := range table.Columns() {
		if c != column {
			keep = append(keep, c)
		}
	}
	out := domain.NewTable(keep)
	for i := 0; i < table.Len(); i++ {
		row := make(domain.Row, len(keep))
		for j, c := range keep {
			row[j] = table.Value(i, c)
		}
		require.NoError(t, out.AppendRow(row))
	}
	return out
}

func ptr[T any](v T) *T { return &v }

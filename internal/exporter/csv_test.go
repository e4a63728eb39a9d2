package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/internal/config"
	"olympicstats/pkg/contracts/domain"
)

func setupPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func readCSV(t *testing.T, path string) (bom bool, rows [][]string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	bom = bytes.HasPrefix(content, utf8BOM)
	rows, err = csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
	require.NoError(t, err)
	return bom, rows
}

var sampleTally = domain.MedalTally{
	{NOC: "FRA", Gold: 2, Silver: 1, Total: 3},
	{NOC: "KOR", Gold: 1, Total: 1},
}

func TestCSVWriter_WriteTable(t *testing.T) {
	paths := setupPaths(t)

	tests := []struct {
		name string
		bom  bool
	}{
		{"with byte order mark", true},
		{"plain", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewCSVWriter(paths, tt.bom, nil)
			require.NoError(t, writer.WriteTable("medal_tally.csv", sampleTally))

			bom, rows := readCSV(t, filepath.Join(paths.CSVDataDir, "medal_tally.csv"))
			assert.Equal(t, tt.bom, bom)
			assert.Equal(t, [][]string{
				{"NOC", "Gold", "Silver", "Bronze", "Total"},
				{"FRA", "2", "1", "0", "3"},
				{"KOR", "1", "0", "0", "1"},
			}, rows)
		})
	}
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	paths := setupPaths(t)
	writer := NewCSVWriter(paths, true, nil)
	path := filepath.Join(t.TempDir(), "nested", "events.csv")

	require.NoError(t, writer.WriteCSV(path, WriteOptions{
		Headers:   []string{"Name", "Event"},
		Records:   [][]string{{`Jean "Jojo" Martin`, "Men's Marathon, 42km"}},
		BOMPrefix: true,
	}))
	require.NoError(t, writer.WriteCSV(path, WriteOptions{
		Headers:   []string{"Name", "Event"},
		Records:   [][]string{{"Kim Lee", "Women's Individual"}},
		Append:    true,
		BOMPrefix: true,
	}))

	bom, rows := readCSV(t, path)
	assert.True(t, bom)
	assert.Equal(t, [][]string{
		{"Name", "Event"},
		{`Jean "Jojo" Martin`, "Men's Marathon, 42km"},
		{"Kim Lee", "Women's Individual"},
	}, rows, "appending writes no second header or BOM")
}

func TestCSVWriter_WriteCleanedTable(t *testing.T) {
	paths := setupPaths(t)
	writer := NewCSVWriter(paths, true, nil)

	table := domain.NewTable([]string{"ID", "Name", "Height"})
	require.NoError(t, table.AppendRow(domain.Row{domain.NumberValue(1), domain.TextValue("Ann"), domain.NumberValue(176.22)}))
	require.NoError(t, table.AppendRow(domain.Row{domain.NumberValue(2), domain.TextValue("Bob"), domain.MissingValue()}))

	require.NoError(t, writer.WriteCleanedTable(paths.MasterCSVPath(), table))

	bom, rows := readCSV(t, paths.MasterCSVPath())
	assert.True(t, bom)
	assert.Equal(t, [][]string{
		{"ID", "Name", "Height"},
		{"1", "Ann", "176.22"},
		{"2", "Bob", ""},
	}, rows)
}

func TestStreamWriter(t *testing.T) {
	writer := NewCSVWriter(setupPaths(t), false, nil)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Year", "Nations"})
	require.NoError(t, err)
	for _, rec := range [][]string{{"1896", "12"}, {"1900", "31"}} {
		require.NoError(t, stream.WriteRecord(rec))
	}
	assert.Equal(t, 2, stream.Rows())
	require.NoError(t, stream.Close())

	_, err = writer.CreateStreamWriter(filepath.Join(string([]byte{0}), "bad.csv"), nil)
	assert.Error(t, err)
}

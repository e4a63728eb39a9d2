package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/internal/config"
	apperrors "olympicstats/internal/errors"
	"olympicstats/internal/shared/testutil"
)

// execute runs the CLI with args and captures stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func sampleSource(t *testing.T) string {
	t.Helper()
	return testutil.WriteAthleteCSV(t, t.TempDir(), "athlete_events.csv", testutil.SampleAthletes()...)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Olympic Stats v")
}

func TestCleanCommand(t *testing.T) {
	out := t.TempDir()
	stdout, stderr, err := execute(t, "clean", "--source", sampleSource(t), "--out", out)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "Cleaned 12 rows into 11 (1 duplicates removed)")
	assert.Contains(t, stderr, "cleaned table written")

	data, err := os.ReadFile(filepath.Join(out, config.CSVDataDirName, config.MasterCleanedCSV))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 12)
}

func TestCleanCommand_CustomTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cleaned.csv")
	stdout, _, err := execute(t, "clean", "--source", sampleSource(t), "--out", t.TempDir(), "--to", target)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+target)
	assert.FileExists(t, target)
}

func TestShowCommand(t *testing.T) {
	source := sampleSource(t)

	stdout, _, err := execute(t, "show", "medal_tally", "--source", source, "--top", "1", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "FRA,2,1,0,3")
	assert.NotContains(t, stdout, "USA")

	stdout, _, err = execute(t, "show", "overview", "--source", source)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Dataset overview\n"))
}

func TestShowCommand_Errors(t *testing.T) {
	source := sampleSource(t)

	tests := []struct {
		name    string
		args    []string
		errType apperrors.ErrorType
	}{
		{"nation analysis without noc", []string{"show", "nation_medals", "--source", source}, apperrors.ErrTypeValidation},
		{"unknown analysis", []string{"show", "fastest_runner", "--source", source}, apperrors.ErrTypeNotFound},
		{"missing source", []string{"show", "overview", "--source", filepath.Join(t.TempDir(), "missing.csv")}, apperrors.ErrTypeDataSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.errType), err.Error())
			assert.Contains(t, stderr, "show failed")
		})
	}
}

func TestShowCommand_RequiresAnalysis(t *testing.T) {
	_, _, err := execute(t, "show")
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	out := t.TempDir()
	stdout, stderr, err := execute(t, "report", "--source", sampleSource(t), "--out", out, "--formats", "csv,json", "--noc", "FRA")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "completed")
	assert.Contains(t, stdout, "Source rows 12, cleaned rows 11")
	assert.FileExists(t, filepath.Join(out, config.ReportsDirName, config.AnalysisJSON))
	assert.FileExists(t, filepath.Join(out, config.CSVDataDirName, "medal_tally.csv"))
	assert.FileExists(t, filepath.Join(out, config.CSVDataDirName, "nation_medals.csv"))

	matches, err := filepath.Glob(filepath.Join(out, config.ReportsDirName, "*.xlsx"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestReportCommand_SheetsWithoutSpreadsheetIsPartial(t *testing.T) {
	stdout, stderr, err := execute(t, "report", "--source", sampleSource(t), "--out", t.TempDir(), "--formats", "json,sheets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "partial")
	assert.Contains(t, stderr, "google sheets publishing unavailable")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "show", "overview", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

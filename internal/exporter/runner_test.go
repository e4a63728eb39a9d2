package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"olympicstats/internal/config"
	"olympicstats/internal/dataprocessing"
	"olympicstats/internal/shared/testutil"
	"olympicstats/pkg/contracts/domain"
)

type recordingPublisher struct {
	tabs []WorkbookSheet
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, tabs []WorkbookSheet) error {
	p.tabs = tabs
	return p.err
}

func runInput(t *testing.T) RunInput {
	t.Helper()
	source := testutil.AthleteTable(t, testutil.SampleAthletes()...)
	cleaned, _ := dataprocessing.NewCleaner(nil, dataprocessing.DefaultCleanOptions()).
		Clean(context.Background(), source)
	return RunInput{Source: "athlete_events.csv", SourceRows: source.Len(), Cleaned: cleaned}
}

func newTestRunner(t *testing.T, formats []string, publisher Publisher) (*ReportRunner, *config.Paths) {
	t.Helper()
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)

	summarizer := dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{FocusNOC: "VIE"})
	runner := NewReportRunner(paths, summarizer, RunnerConfig{
		Formats:     formats,
		IncludeBOM:  true,
		PreviewRows: 5,
		Workers:     4,
	}, publisher, nil, nil)
	runner.now = func() time.Time { return time.Date(2024, 7, 26, 19, 30, 0, 0, time.UTC) }
	return runner, paths
}

func TestReportRunner_Run(t *testing.T) {
	runner, paths := newTestRunner(t, []string{"csv", "excel", "json"}, nil)
	in := runInput(t)

	report, err := runner.Run(context.Background(), in)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, domain.ReportStatusCompleted, report.Status)
	assert.Equal(t, 12, report.Metadata.SourceRows)
	assert.Equal(t, 11, report.Metadata.CleanedRows)
	assert.Equal(t, 9, report.Metadata.Analyses)
	assert.ElementsMatch(t, []domain.AnalysisType{
		domain.AnalysisCountry, domain.AnalysisNationAthletes, domain.AnalysisNationMedals,
	}, report.Skipped, "VIE is absent from the sample")

	byFormat := map[domain.ReportFormat]int{}
	for _, out := range report.Outputs {
		byFormat[out.Format]++
		if out.Path != "" {
			assert.FileExists(t, out.Path)
		}
	}
	assert.Equal(t, 10, byFormat[domain.ReportFormatCSV])
	assert.Equal(t, 1, byFormat[domain.ReportFormatExcel])
	assert.Equal(t, 1, byFormat[domain.ReportFormatJSON])

	assert.FileExists(t, paths.CSVPath(string(domain.AnalysisMedalTally)))
	assert.NoFileExists(t, paths.CSVPath(string(domain.AnalysisCountry)))

	bom, rows := readCSV(t, paths.MasterCSVPath())
	assert.True(t, bom)
	assert.Len(t, rows, 12)

	workbookPath := paths.WorkbookPath(runner.now())
	assert.Contains(t, workbookPath, "Olympic_Full_Report_20240726_1930.xlsx")
	f, err := excelize.OpenFile(workbookPath)
	require.NoError(t, err)
	defer f.Close()
	sheets := f.GetSheetList()
	require.Len(t, sheets, 10)
	assert.Equal(t, PreviewSheetName, sheets[0])
	assert.Equal(t, "Dataset overview", sheets[1])
	preview, err := f.GetRows(PreviewSheetName)
	require.NoError(t, err)
	assert.Len(t, preview, 6, "header plus five preview rows")

	data, err := os.ReadFile(paths.AnalysisJSONPath())
	require.NoError(t, err)
	var doc AnalysisDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, report.ID, doc.RunID)
	assert.Len(t, doc.Analyses, 9)
	assert.NotEmpty(t, doc.Analyses[domain.AnalysisMedalTally])
}

func TestReportRunner_LogsSkippedAnalyses(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{FocusNOC: "VIE"})
	runner := NewReportRunner(paths, summarizer, RunnerConfig{Formats: []string{"json"}}, nil, nil, logger)

	_, err = runner.Run(context.Background(), runInput(t))
	require.NoError(t, err)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "analysis skipped, no rows")
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "report written")
	testutil.AssertLogAttr(t, handler, "analysis", string(domain.AnalysisNationMedals))
}

func TestReportRunner_FormatsSelectOutputs(t *testing.T) {
	runner, paths := newTestRunner(t, []string{"json"}, nil)

	report, err := runner.Run(context.Background(), runInput(t))
	require.NoError(t, err)

	require.Len(t, report.Outputs, 1)
	assert.Equal(t, domain.ReportFormatJSON, report.Outputs[0].Format)
	assert.NoFileExists(t, paths.MasterCSVPath())
}

func TestReportRunner_Sheets(t *testing.T) {
	t.Run("published", func(t *testing.T) {
		publisher := &recordingPublisher{}
		runner, _ := newTestRunner(t, []string{"sheets"}, publisher)

		report, err := runner.Run(context.Background(), runInput(t))
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusCompleted, report.Status)
		assert.Len(t, publisher.tabs, 9)
		assert.Equal(t, "Dataset overview", publisher.tabs[0].Name)
	})

	t.Run("publish failure leaves a partial report", func(t *testing.T) {
		publisher := &recordingPublisher{err: errors.New("quota exceeded")}
		runner, _ := newTestRunner(t, []string{"json", "sheets"}, publisher)

		report, err := runner.Run(context.Background(), runInput(t))
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusPartial, report.Status)
		require.Len(t, report.Outputs, 1)
		assert.Equal(t, domain.ReportFormatJSON, report.Outputs[0].Format)
	})

	t.Run("no publisher", func(t *testing.T) {
		runner, _ := newTestRunner(t, []string{"sheets"}, nil)

		report, err := runner.Run(context.Background(), runInput(t))
		require.NoError(t, err)
		assert.Equal(t, domain.ReportStatusPartial, report.Status)
	})
}

func TestReportRunner_CancelledContext(t *testing.T) {
	runner, _ := newTestRunner(t, []string{"csv"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, runInput(t))
	assert.Error(t, err)
}

func TestRunnerConfigFrom(t *testing.T) {
	cfg := RunnerConfigFrom(config.Default().Export)
	assert.True(t, cfg.has(domain.ReportFormatCSV))
	assert.Equal(t, config.Default().Export.Workers, cfg.Workers)
}

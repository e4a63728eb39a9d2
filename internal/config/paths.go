package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Well-known output names
const (
	CSVDataDirName     = "csv_data"
	ChartsDirName      = "charts"
	ReportsDirName     = "reports"
	MasterCleanedCSV   = "00_MASTER_CLEANED_DATA.csv"
	AnalysisJSON       = "analysis.json"
	WorkbookNamePrefix = "Olympic_Full_Report_"
)

// Paths is the output directory layout of a report run:
//
//	output/
//	  csv_data/   one CSV per aggregation plus the master cleaned table
//	  charts/     reserved for chart images
//	  reports/    timestamped workbook and analysis.json
type Paths struct {
	RootDir    string
	CSVDataDir string
	ChartsDir  string
	ReportsDir string
}

// NewPaths resolves the layout under root
func NewPaths(root string) (*Paths, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", root, err)
	}
	return &Paths{
		RootDir:    abs,
		CSVDataDir: filepath.Join(abs, CSVDataDirName),
		ChartsDir:  filepath.Join(abs, ChartsDirName),
		ReportsDir: filepath.Join(abs, ReportsDirName),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.RootDir, p.CSVDataDir, p.ChartsDir, p.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CSVPath returns the CSV file for a named table
func (p *Paths) CSVPath(name string) string {
	return filepath.Join(p.CSVDataDir, name+".csv")
}

// MasterCSVPath returns the cleaned table export path
func (p *Paths) MasterCSVPath() string {
	return filepath.Join(p.CSVDataDir, MasterCleanedCSV)
}

// WorkbookPath returns the workbook path stamped to the minute
func (p *Paths) WorkbookPath(at time.Time) string {
	return filepath.Join(p.ReportsDir, WorkbookNamePrefix+at.Format("20060102_1504")+".xlsx")
}

// AnalysisJSONPath returns the structured records export path
func (p *Paths) AnalysisJSONPath() string {
	return filepath.Join(p.ReportsDir, AnalysisJSON)
}

// LogPathResolution logs the resolved layout at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("root", p.RootDir),
			slog.String("csv_data", p.CSVDataDir),
			slog.String("charts", p.ChartsDir),
			slog.String("reports", p.ReportsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

package config

import "time"

// Application constants
const (
	AppName    = "Olympic Stats"
	AppVersion = "1.0.0"

	// API Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"

	// Defaults shared by the CLI and the API
	DefaultTopN           = 10
	DefaultRowsLimit      = 100
	MaxRowsLimit          = 5000
	DefaultLoadTimeout    = 2 * time.Minute
	ReportGenerationLimit = 15 * time.Minute

	// Spreadsheet limits
	MaxSheetNameLength = 31
	PreviewSheetName   = "Top 50 Data"
)

// Package config provides configuration loading for the olympics tools.
//
// # Configuration Sources
//
// Configuration is built in this order, later sources winning:
//
//	1. `default` struct tags
//	2. Environment variables prefixed with OLYMPICS_
//	3. A YAML file passed with --config, or olympics.yaml / configs/olympics.yaml
//
// Environment variables follow the struct nesting:
//
//	OLYMPICS_SERVER_PORT=8080
//	OLYMPICS_DATA_SOURCE=data/athlete_events.csv
//	OLYMPICS_LOGGING_LEVEL=debug
//	OLYMPICS_EXPORT_FORMATS=csv,excel
//
// # Output Layout
//
// Paths resolves where a report run writes its artifacts:
//
//	paths, _ := config.NewPaths(cfg.Export.OutputDir)
//	paths.CSVPath("medal_tally")   // output/csv_data/medal_tally.csv
//	paths.WorkbookPath(time.Now()) // output/reports/Olympic_Full_Report_20240101_1200.xlsx
//
// # Validation
//
// Load validates struct tags with validator/v10 and then applies the
// cross-field rules (CORS origins, log file path, Sheets spreadsheet id).
package config

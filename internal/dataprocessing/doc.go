// Package dataprocessing turns the athlete-events source into a cleaned
// table and the aggregate tables built from it.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Loader: reads a CSV or XLSX source into a domain.Table
// 2. Cleaner: deduplicates, coerces, imputes, normalizes medals and caps outliers
// 3. Filters: numeric, categorical, medal and season/year selections
// 4. Analytics: pure aggregations such as the medal tally, registered in the
// Summarizer for report runs
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.LoaderOptions{})
//	raw, err := loader.Load(ctx, "data/athlete_events.csv")
//	if err != nil {
//	    return err
//	}
//
//	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanOptions())
//	cleaned, report := cleaner.Clean(ctx, raw)
//
//	tally, err := dataprocessing.MedalTally(cleaned, 10)
//
// # Data Flow
//
//	File → Loader → raw Table → Cleaner → cleaned Table → Filters / Analytics → Tabular results
//
// # Error Handling
//
// Loader errors are fatal: a missing file is a DATA_SOURCE error, a malformed
// one a PARSING error carrying the row number. Cleaning never fails; steps
// whose columns are absent are listed in the CleanReport. Filters and
// aggregations return a SCHEMA error when a column they need is absent.
// An empty result is a valid value, not an error.
package dataprocessing

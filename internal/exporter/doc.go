// Package exporter writes aggregation results and the cleaned table out of
// the process.
//
// Writers:
//
// CSVWriter: one CSV per table with an optional UTF-8 BOM for Excel, plus a
// streaming writer used for the master cleaned table.
//
// WorkbookWriter: a multi-sheet XLSX file, one sheet per table.
//
// JSONWriter: header-keyed records for the analysis document.
//
// SheetsPublisher: mirrors the same tables into a Google spreadsheet.
//
// ReportRunner ties them together: it runs the summarizer plan with a
// bounded number of workers and writes every enabled format under the
// output directory.
//
//	runner := exporter.NewReportRunner(paths, summarizer,
//	    exporter.RunnerConfigFrom(cfg.Export), nil, metrics, logger)
//	report, err := runner.Run(ctx, exporter.RunInput{Source: src, Cleaned: cleaned})
//
// RenderTable prints a table to a terminal.
package exporter

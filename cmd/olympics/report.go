package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"olympicstats/internal/config"
	"olympicstats/internal/dataprocessing"
	"olympicstats/internal/exporter"
	"olympicstats/pkg/contracts/domain"
)

func newReportCmd(st *cliState) *cobra.Command {
	var (
		formats  []string
		focusNOC string
		topN     int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every aggregation and export CSV, Excel, JSON and Google Sheets outputs",
		Example: `  # Everything enabled in the configuration
  olympics report

  # CSV only, top 20 rows per ranking
  olympics report --formats csv --top 20

  # Single-nation analyses for France
  olympics report --noc FRA`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			export := st.cfg.Export
			if cmd.Flags().Changed("formats") {
				export.Formats = formats
			}
			if cmd.Flags().Changed("noc") {
				export.FocusNOC = focusNOC
			}
			if cmd.Flags().Changed("top") {
				export.TopN = topN
			}

			ds, err := st.analysisService().Dataset(ctx)
			if err != nil {
				return st.fail(ctx, "report failed", err)
			}

			paths, err := config.NewPaths(export.OutputDir)
			if err != nil {
				return st.fail(ctx, "report failed", err)
			}
			paths.LogPathResolution(st.logger)

			var publisher exporter.Publisher
			if export.HasFormat(string(domain.ReportFormatSheets)) {
				sp, err := exporter.NewSheetsPublisher(ctx, export.Sheets, st.logger)
				if err != nil {
					st.logger.WarnContext(ctx, "google sheets publishing unavailable", slog.String("error", err.Error()))
				} else {
					publisher = sp
				}
			}

			summarizer := dataprocessing.NewSummarizer(st.logger, dataprocessing.SummarizerConfig{
				FocusNOC: export.FocusNOC,
				TopN:     export.TopN,
			})
			runner := exporter.NewReportRunner(paths, summarizer, exporter.RunnerConfigFrom(export), publisher, nil, st.logger)

			report, err := runner.Run(ctx, exporter.RunInput{
				Source:     ds.Source,
				SourceRows: ds.Raw.Len(),
				Cleaned:    ds.Cleaned,
			})
			if err != nil {
				return st.fail(ctx, "report failed", err)
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&formats, "formats", nil, "export formats (csv,excel,json,sheets)")
	cmd.Flags().StringVar(&focusNOC, "noc", "", "nation for the single-nation analyses")
	cmd.Flags().IntVar(&topN, "top", 0, "limit rankings to the first N rows (0 = all)")
	return cmd
}

func printReport(cmd *cobra.Command, report *domain.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report %s: %s in %s\n", report.ID, report.Status, report.Duration.Round(1e6))
	fmt.Fprintf(out, "Source rows %d, cleaned rows %d, analyses %d\n",
		report.Metadata.SourceRows, report.Metadata.CleanedRows, report.Metadata.Analyses)

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Format", "Analysis", "Rows", "Path"})
	for _, o := range report.Outputs {
		tw.AppendRow(table.Row{o.Format, o.Analysis, o.Rows, o.Path})
	}
	tw.Render()

	if len(report.Skipped) > 0 {
		skipped := make([]string, len(report.Skipped))
		for i, s := range report.Skipped {
			skipped[i] = string(s)
		}
		fmt.Fprintf(out, "Skipped (no rows): %s\n", strings.Join(skipped, ", "))
	}
}

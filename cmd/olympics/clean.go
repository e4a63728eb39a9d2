package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"olympicstats/internal/config"
	"olympicstats/internal/exporter"
)

func newCleanCmd(st *cliState) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Load and clean the source, then write the cleaned table as CSV",
		Example: `  # Write output/csv_data/00_MASTER_CLEANED_DATA.csv
  olympics clean --source data/athlete_events.csv

  # Write somewhere else
  olympics clean --to cleaned.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ds, err := st.analysisService().Dataset(ctx)
			if err != nil {
				return st.fail(ctx, "clean failed", err)
			}

			paths, err := config.NewPaths(st.cfg.Export.OutputDir)
			if err != nil {
				return st.fail(ctx, "clean failed", err)
			}
			if err := paths.EnsureDirectories(); err != nil {
				return st.fail(ctx, "clean failed", err)
			}
			if target == "" {
				target = paths.MasterCSVPath()
			}

			w := exporter.NewCSVWriter(paths, st.cfg.Export.IncludeBOM, st.logger)
			if err := w.WriteCleanedTable(target, ds.Cleaned); err != nil {
				return st.fail(ctx, "clean failed", err)
			}

			r := ds.Report
			st.logger.InfoContext(ctx, "cleaned table written",
				slog.String("path", target),
				slog.Int("input_rows", r.InputRows),
				slog.Int("output_rows", r.OutputRows),
				slog.Int("duplicates_removed", r.DuplicatesRemoved),
				slog.Int("cells_imputed", r.CellsImputed()),
				slog.Int("cells_capped", r.CellsCapped()),
				slog.Duration("duration", r.Duration))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cleaned %d rows into %d (%d duplicates removed)\n", r.InputRows, r.OutputRows, r.DuplicatesRemoved)
			fmt.Fprintf(out, "Imputed %d cells, capped %d cells\n", r.CellsImputed(), r.CellsCapped())
			for _, s := range r.Skipped {
				fmt.Fprintf(out, "Skipped %s: %s\n", s.Step, s.Reason)
			}
			fmt.Fprintf(out, "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", "", "output CSV path (default: <out>/csv_data/00_MASTER_CLEANED_DATA.csv)")
	return cmd
}

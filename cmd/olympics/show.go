package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"olympicstats/internal/dataprocessing"
	"olympicstats/internal/exporter"
	"olympicstats/pkg/contracts/domain"
)

func newShowCmd(st *cliState) *cobra.Command {
	var (
		noc    string
		topN   int
		season string
		order  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "show <analysis>",
		Short: "Print one aggregation",
		Long: `Print one aggregation over the cleaned table.

Analyses:
` + analysisList(),
		Example: `  olympics show medal_tally --top 10
  olympics show country_performance --noc FRA
  olympics show top_sports --season Winter --format markdown`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, a := range dataprocessing.Analyses() {
				names = append(names, string(a.Type))
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			params := dataprocessing.AnalysisParams{
				NOC:           dataprocessing.NormalizeNOC(noc),
				TopN:          topN,
				PhysiqueOrder: dataprocessing.PhysiqueOrder(order),
			}
			if season != "" {
				params.Season = &season
			}

			res, err := st.analysisService().Aggregate(ctx, domain.AnalysisType(args[0]), params)
			if err != nil {
				return st.fail(ctx, "show failed", err)
			}

			out := cmd.OutOrStdout()
			if format == "" || format == "table" {
				fmt.Fprintln(out, res.Title)
			}
			return exporter.RenderTable(out, res.Table, format)
		},
	}

	cmd.Flags().StringVar(&noc, "noc", "", "nation code for single-nation analyses")
	cmd.Flags().IntVar(&topN, "top", 0, "limit rankings to the first N rows (0 = all)")
	cmd.Flags().StringVar(&season, "season", "", "restrict top_sports to Summer or Winter")
	cmd.Flags().StringVar(&order, "sort", string(dataprocessing.PhysiqueByWeight), "physique ranking (weight|composite)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format ("+strings.Join(exporter.RenderFormats, "|")+")")
	return cmd
}

func analysisList() string {
	analyses := dataprocessing.Analyses()
	sort.Slice(analyses, func(i, j int) bool { return analyses[i].Type < analyses[j].Type })

	var b strings.Builder
	for _, a := range analyses {
		suffix := ""
		if a.NeedsNOC {
			suffix = " (needs --noc)"
		}
		fmt.Fprintf(&b, "  %-24s %s%s\n", a.Type, a.Title, suffix)
	}
	return b.String()
}

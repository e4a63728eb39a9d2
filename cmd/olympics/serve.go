package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"olympicstats/internal/app"
	"olympicstats/pkg/contracts"
)

func newServeCmd(st *cliState) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cleaned table, filters and aggregations over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("port") {
				st.cfg.Server.Port = port
			}

			application, err := app.NewApplication(st.cfg, st.logger)
			if err != nil {
				return st.fail(ctx, "server setup failed", err)
			}
			if err := application.Run(ctx); err != nil {
				return st.fail(ctx, "server stopped with error", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

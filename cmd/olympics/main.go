// Command olympics cleans the athlete-events dataset, prints and exports
// aggregations, and serves them over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"olympicstats/internal/config"
	"olympicstats/internal/infrastructure"
	"olympicstats/internal/services"
	"olympicstats/pkg/contracts"
)

// cliState is shared by every subcommand once the root pre-run has loaded
// the configuration
type cliState struct {
	configFile string
	logLevel   string
	source     string
	outputDir  string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	root := &cobra.Command{
		Use:   "olympics",
		Short: "Olympic athlete-events cleaning and analysis",
		Long: `olympics loads the athlete-events dataset (CSV or Excel), cleans it and
computes medal, participation and physique aggregations.

Configuration comes from OLYMPICS_* environment variables, overridden by
olympics.yaml (or --config), overridden by command-line flags.`,
		Version: contracts.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return st.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = infrastructure.CloseLogFile()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	root.PersistentFlags().StringVar(&st.configFile, "config", "", "config file (default: ./olympics.yaml)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&st.source, "source", "", "athlete-events CSV or Excel file")
	root.PersistentFlags().StringVar(&st.outputDir, "out", "", "output directory")

	root.AddCommand(
		newCleanCmd(st),
		newReportCmd(st),
		newShowCmd(st),
		newServeCmd(st),
		newVersionCmd(),
	)
	return root
}

// init loads the configuration, applies flag overrides and builds the logger
func (st *cliState) init(cmd *cobra.Command) error {
	cfg, err := config.Load(st.configFile)
	if err != nil {
		return err
	}
	if st.logLevel != "" {
		cfg.Logging.Level = st.logLevel
	}
	if st.source != "" {
		cfg.Data.Source = st.source
	}
	if st.outputDir != "" {
		cfg.Export.OutputDir = st.outputDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// every log line of one invocation shares a trace id
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))

	st.cfg = cfg
	st.logger = logger
	return nil
}

// analysisService builds a service over the configured source
func (st *cliState) analysisService() *services.AnalysisService {
	return services.NewAnalysisService(services.AnalysisServiceConfigFrom(st.cfg.Data), nil, st.logger)
}

// fail logs err and returns it so cobra exits non-zero
func (st *cliState) fail(ctx context.Context, msg string, err error) error {
	infrastructure.WithComponent(st.logger, "cli").ErrorContext(ctx, msg, slog.String("error", err.Error()))
	return err
}

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitewatch-orchestrator/config"
	"sitewatch-orchestrator/internal/logs"
	"sitewatch-orchestrator/internal/orchestrator"
)

// cliEnv carries the pieces every subcommand needs. Built fresh per
// invocation from the environment, no DI container involved.
type cliEnv struct {
	cfg    config.Config
	logger *zap.SugaredLogger
}

func newEnv() (cliEnv, error) {
	cfg, err := config.NewConfig(config.NewViper())
	if err != nil {
		return cliEnv{}, &orchestrator.ConfigError{Err: err}
	}

	logger, err := logs.NewLogger(cfg)
	if err != nil {
		return cliEnv{}, err
	}
	return cliEnv{cfg: cfg, logger: logs.NewSugaredLogger(logger)}, nil
}

func (e cliEnv) close() {
	_ = e.logger.Sync()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sitewatch",
		Short:         "Run and inspect site monitoring passes",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newStatsCmd(),
		newCleanupCmd(),
		newReportCmd(),
		newChangesCmd(),
	)
	return rootCmd
}

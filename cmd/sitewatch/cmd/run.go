package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sitewatch-orchestrator/internal/changes"
	"sitewatch-orchestrator/internal/checker"
	"sitewatch-orchestrator/internal/orchestrator"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/store"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one monitoring pass and record the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			defer env.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc := orchestrator.NewService(orchestrator.ServiceConfig{
				Checker: checker.NewExecChecker(checker.ExecCheckerConfig{
					Cmd:     env.cfg.Checker.Cmd,
					Args:    env.cfg.Checker.Args,
					WorkDir: env.cfg.Checker.WorkDir,
					Logger:  env.logger,
				}),
				Driver: run.NewDriver(run.DriverConfig{
					ArtifactDir: env.cfg.LogDir,
					Timeout:     env.cfg.Checker.Timeout,
					Logger:      env.logger,
				}),
				Store:     store.New(env.cfg.StorePath(), env.logger),
				Tracker:   changes.NewTracker(env.cfg.ChangesPath(), env.logger),
				SitesFile: env.cfg.SitesFile,
				LockPath:  env.cfg.LockPath(),
				Logger:    env.logger,
			})

			rec, err := svc.RunOnce(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s finished: status=%s sites=%d error_lines=%d output=%s\n",
				rec.ID, rec.Status, rec.SiteCount, rec.ErrorLineCount, rec.OutputPath)

			if rec.Status != run.StatusSuccess {
				return fmt.Errorf("run %s ended with status %s", rec.ID, rec.Status)
			}
			return nil
		},
	}
}

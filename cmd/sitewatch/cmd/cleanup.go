package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sitewatch-orchestrator/internal/envutil"
	"sitewatch-orchestrator/internal/store"
)

func newCleanupCmd() *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove run records and artifacts past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			defer env.close()

			days := maxAgeDays
			if days < 0 {
				days = env.cfg.Retention.MaxAgeDays
			}

			st := store.New(env.cfg.StorePath(), env.logger)
			removed, err := store.NewSweeper(st, env.logger).Sweep(time.Duration(days)*24*time.Hour, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d run(s) older than %d day(s)\n", removed, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", envutil.Int(os.Getenv, "CLEANUP_MAX_AGE_DAYS", -1), "Retention window in days (defaults to RETENTION_MAX_AGE_DAYS)")
	return cmd
}

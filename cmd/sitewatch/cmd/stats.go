package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sitewatch-orchestrator/internal/checkerdb"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/store"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded runs and the checker cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			defer env.close()

			recs, err := store.New(env.cfg.StorePath(), env.logger).List(0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			counts := map[run.Status]int{}
			for _, rec := range recs {
				counts[rec.Status]++
			}

			fmt.Fprintf(out, "runs: %d\n", len(recs))
			for _, st := range []run.Status{run.StatusSuccess, run.StatusFailure, run.StatusTimeout, run.StatusAborted} {
				if counts[st] > 0 {
					fmt.Fprintf(out, "  %s: %d\n", st, counts[st])
				}
			}
			if len(recs) > 0 {
				latest := recs[0]
				fmt.Fprintf(out, "latest: %s at %s (%s, %d error lines)\n",
					latest.ID,
					latest.StartTime.UTC().Format("2006-01-02 15:04:05"),
					latest.Status,
					latest.ErrorLineCount,
				)
			}

			if strings.TrimSpace(env.cfg.Checker.CacheDB) == "" {
				return nil
			}

			entries, err := checkerdb.NewInspector(env.cfg.Checker.CacheDB, env.logger).Snapshot(cmd.Context())
			if errors.Is(err, checkerdb.ErrCacheDBNotFound) {
				fmt.Fprintf(out, "checker cache: not found (%s)\n", env.cfg.Checker.CacheDB)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "checker cache: %d site(s)\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(out, "  %s: last_check=%s tries=%d entries=%d\n",
					e.GUID, e.LastCheck.UTC().Format(time.RFC3339), e.Tries, e.EntryCount)
			}
			return nil
		},
	}
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sitewatch-orchestrator/internal/checkerdb"
	"sitewatch-orchestrator/internal/envutil"
	"sitewatch-orchestrator/internal/report"
	"sitewatch-orchestrator/internal/sites"
	"sitewatch-orchestrator/internal/store"
)

func newReportCmd() *cobra.Command {
	var (
		limit    int
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a Markdown digest of recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			defer env.close()

			recs, err := store.New(env.cfg.StorePath(), env.logger).List(limit)
			if err != nil {
				return err
			}

			if !detailed {
				fmt.Fprint(cmd.OutOrStdout(), report.Render(recs))
				return nil
			}

			var entries []checkerdb.SiteEntry
			if strings.TrimSpace(env.cfg.Checker.CacheDB) != "" {
				entries, err = checkerdb.NewInspector(env.cfg.Checker.CacheDB, env.logger).Snapshot(cmd.Context())
				if err != nil && !errors.Is(err, checkerdb.ErrCacheDBNotFound) {
					return err
				}
			}

			nameFor := func(guid string) string { return guid }
			if list, err := sites.Load(env.cfg.SitesFile); err == nil {
				nameFor = list.NameForGUID
			}

			fmt.Fprint(cmd.OutOrStdout(), report.RenderDetailed(recs, entries, nameFor))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", envutil.Int(os.Getenv, "REPORT_LIMIT", 20), "Number of recent runs to include (0 for all)")
	cmd.Flags().BoolVar(&detailed, "detailed", envutil.Bool(os.Getenv, "REPORT_DETAILED", false), "Append per-site history from the checker cache")
	return cmd
}

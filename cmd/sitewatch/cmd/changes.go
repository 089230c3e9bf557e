package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitewatch-orchestrator/internal/changes"
	"sitewatch-orchestrator/internal/envutil"
)

func newChangesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List recently detected site changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv()
			if err != nil {
				return err
			}
			defer env.close()

			recent, err := changes.NewTracker(env.cfg.ChangesPath(), env.logger).Recent(limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintln(out, "no changes recorded")
				return nil
			}
			for _, ch := range recent {
				fmt.Fprintf(out, "%s  %-10s %s (%s)\n",
					ch.Timestamp.UTC().Format("2006-01-02 15:04:05"), ch.Type, ch.Name, ch.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", envutil.Int(os.Getenv, "CHANGES_LIMIT", 20), "Number of changes to show (0 for all)")
	return cmd
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportCmd_LimitDefaultSeededFromEnv(t *testing.T) {
	t.Setenv("REPORT_LIMIT", "5")
	cmd := newReportCmd()
	require.Equal(t, "5", cmd.Flags().Lookup("limit").DefValue)
}

func TestCleanupCmd_MaxAgeDefaultSeededFromEnv(t *testing.T) {
	t.Setenv("CLEANUP_MAX_AGE_DAYS", "7")
	cmd := newCleanupCmd()
	require.Equal(t, "7", cmd.Flags().Lookup("max-age-days").DefValue)
}

func TestChangesCmd_LimitDefaultIgnoresBadEnv(t *testing.T) {
	t.Setenv("CHANGES_LIMIT", "not-a-number")
	cmd := newChangesCmd()
	require.Equal(t, "20", cmd.Flags().Lookup("limit").DefValue)
}

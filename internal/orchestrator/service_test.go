package orchestrator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sitewatch-orchestrator/internal/changes"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/sites"
	"sitewatch-orchestrator/internal/store"
)

type scriptedChecker struct {
	output     string
	exitCode   int
	installErr error
}

func (c *scriptedChecker) Name() string          { return "scripted" }
func (c *scriptedChecker) CheckInstalled() error { return c.installErr }

func (c *scriptedChecker) Run(ctx context.Context, output io.Writer) (int, error) {
	_, _ = io.WriteString(output, c.output)
	return c.exitCode, nil
}

type captureSink struct {
	name string
	recs []run.Record
	err  error
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Publish(ctx context.Context, rec run.Record) error {
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

type serviceFixture struct {
	svc     *Service
	store   *store.Store
	tracker *changes.Tracker
	dir     string
}

func newFixture(t *testing.T, chk *scriptedChecker, sinks ...Sink) *serviceFixture {
	t.Helper()

	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "runs.jsonl"), nil)
	tracker := changes.NewTracker(filepath.Join(dir, "changes_history.json"), nil)

	sitesFile := filepath.Join(dir, "urls2watch.yaml")
	require.NoError(t, os.WriteFile(sitesFile, []byte(`
jobs:
  - name: Town Hall Board
    url: https://example.org/board
  - name: Jobs Office
    url: https://example.org/jobs
`), 0o644))

	svc := NewService(ServiceConfig{
		Checker: chk,
		Driver: run.NewDriver(run.DriverConfig{
			ArtifactDir: filepath.Join(dir, "logs"),
			Timeout:     time.Minute,
		}),
		Store:     st,
		Tracker:   tracker,
		Sinks:     sinks,
		SitesFile: sitesFile,
		LockPath:  filepath.Join(dir, "run.lock"),
	})

	return &serviceFixture{svc: svc, store: st, tracker: tracker, dir: dir}
}

func TestService_RunOnce_CleanRun(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{output: "Processing: https://example.org/board\n"})

	rec, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, run.StatusSuccess, rec.Status)
	require.True(t, rec.Clean)
	require.Equal(t, 0, rec.ErrorLineCount)
	require.Equal(t, 2, rec.SiteCount)

	recs, err := fix.store.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, rec.ID, recs[0].ID)
}

func TestService_RunOnce_ErrorLinesCounted(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{output: "" +
		"ERROR: one\n" +
		"ok line\n" +
		"ERROR: two\n" +
		"ERROR: three\n"})

	rec, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, rec.ErrorLineCount)
	require.False(t, rec.Clean)
	require.Equal(t, run.StatusSuccess, rec.Status)
}

func TestService_RunOnce_FailureIsRecordedNotFatal(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{output: "boom\n", exitCode: 1})

	rec, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, run.StatusFailure, rec.Status)
	require.Equal(t, 1, rec.ExitCode)
	require.False(t, rec.Clean)

	recs, err := fix.store.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestService_RunOnce_MissingCheckerIsConfigError(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{installErr: errors.New("not found")})

	_, err := fix.svc.RunOnce(context.Background())
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))

	// No record may exist for an aborted configuration.
	recs, listErr := fix.store.List(0)
	require.NoError(t, listErr)
	require.Empty(t, recs)
}

func TestService_RunOnce_BusyWhenLockHeld(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{})

	lock, err := run.AcquireLock(filepath.Join(fix.dir, "run.lock"))
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, err = fix.svc.RunOnce(context.Background())
	require.True(t, errors.Is(err, run.ErrBusy))
}

func TestService_RunOnce_TracksChangedSites(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{output: "CHANGED: https://example.org/board\n"})

	_, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)

	history, err := fix.tracker.History()
	require.NoError(t, err)
	entry := history[sites.GUID("https://example.org/board")]
	require.Equal(t, "Town Hall Board", entry.Name)
	require.Len(t, entry.Changes, 1)
}

func TestService_RunOnce_SinksReceiveRecordAndFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	good := &captureSink{name: "good"}
	bad := &captureSink{name: "bad", err: errors.New("sink down")}
	fix := newFixture(t, &scriptedChecker{}, bad, good)

	rec, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, good.recs, 1)
	require.Equal(t, rec.ID, good.recs[0].ID)
}

func TestService_RunOnce_MissingSitesFileMeansZeroCount(t *testing.T) {
	t.Parallel()

	fix := newFixture(t, &scriptedChecker{})
	fix.svc.sitesFile = filepath.Join(fix.dir, "absent.yaml")

	rec, err := fix.svc.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, rec.SiteCount)
}

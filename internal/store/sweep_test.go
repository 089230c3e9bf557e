package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sitewatch-orchestrator/internal/run"
)

func sweptRecord(t *testing.T, dir, id string, end time.Time) run.Record {
	t.Helper()
	artifact := filepath.Join(dir, "run_"+id+".log")
	require.NoError(t, os.WriteFile(artifact, []byte("output\n"), 0o644))
	return run.Record{
		ID:         id,
		StartTime:  end.Add(-time.Minute),
		EndTime:    end,
		Status:     run.StatusSuccess,
		OutputPath: artifact,
		Clean:      true,
	}
}

func TestSweeper_RemovesOnlyExpiredRecordsAndArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "runs.jsonl"), nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	old := sweptRecord(t, dir, "old", now.AddDate(0, 0, -45))
	fresh := sweptRecord(t, dir, "fresh", now.AddDate(0, 0, -10))
	require.NoError(t, s.Append(old))
	require.NoError(t, s.Append(fresh))

	sw := NewSweeper(s, nil)
	removed, err := sw.Sweep(30*24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "fresh", recs[0].ID)

	require.NoFileExists(t, old.OutputPath)
	require.FileExists(t, fresh.OutputPath)
}

func TestSweeper_SweepIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "runs.jsonl"), nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(sweptRecord(t, dir, "old", now.AddDate(0, 0, -45))))

	sw := NewSweeper(s, nil)
	removed, err := sw.Sweep(30*24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	removed, err = sw.Sweep(30*24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}

func TestSweeper_ZeroMaxAgeDisablesRetention(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "runs.jsonl"), nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	old := sweptRecord(t, dir, "old", now.AddDate(0, 0, -45))
	just := sweptRecord(t, dir, "just", now.Add(-time.Minute))
	require.NoError(t, s.Append(old))
	require.NoError(t, s.Append(just))

	sw := NewSweeper(s, nil)
	removed, err := sw.Sweep(0, now)
	require.NoError(t, err)
	require.Equal(t, 0, removed)

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.FileExists(t, old.OutputPath)
	require.FileExists(t, just.OutputPath)
}

func TestSweeper_MissingArtifactDoesNotBlockRecordRemoval(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := New(filepath.Join(dir, "runs.jsonl"), nil)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	rec := sweptRecord(t, dir, "old", now.AddDate(0, 0, -45))
	require.NoError(t, s.Append(rec))

	// Artifact already gone, e.g. a prior sweep crashed between the two steps.
	require.NoError(t, os.Remove(rec.OutputPath))

	sw := NewSweeper(s, nil)
	removed, err := sw.Sweep(30*24*time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Empty(t, recs)
}

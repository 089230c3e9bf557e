package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sitewatch-orchestrator/internal/run"
)

func testRecord(t *testing.T, id string, start time.Time) run.Record {
	t.Helper()
	return run.Record{
		ID:         id,
		StartTime:  start,
		EndTime:    start.Add(time.Minute),
		Status:     run.StatusSuccess,
		OutputPath: filepath.Join("logs", "run_"+id+".log"),
		SiteCount:  3,
		Clean:      true,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "runs.jsonl"), nil)
}

func TestStore_ListNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Append out of order on purpose.
	require.NoError(t, s.Append(testRecord(t, "b", base.Add(time.Hour))))
	require.NoError(t, s.Append(testRecord(t, "a", base)))
	require.NoError(t, s.Append(testRecord(t, "c", base.Add(2*time.Hour))))

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		require.True(t, recs[i-1].StartTime.After(recs[i].StartTime),
			"records must be in strictly decreasing start_time order")
	}

	limited, err := s.List(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	require.Equal(t, "c", limited[0].ID)
}

func TestStore_AppendRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Append(run.Record{ID: "x"})
	require.Error(t, err)
}

func TestStore_CorruptLineIsSkipped(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(testRecord(t, "a", base)))

	// Simulate a crash mid-append: a truncated trailing line.
	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"torn","start_t`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "a", recs[0].ID)

	// Later appends still work and earlier entries stay intact.
	require.NoError(t, s.Append(testRecord(t, "b", base.Add(time.Hour))))
	recs, err = s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestStore_RemoveUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(testRecord(t, "a", base)))

	require.NoError(t, s.Remove("missing"))

	recs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestStore_ListMissingFile(t *testing.T) {
	t.Parallel()

	s := New(filepath.Join(t.TempDir(), "never-written.jsonl"), nil)
	recs, err := s.List(0)
	require.NoError(t, err)
	require.Empty(t, recs)
}

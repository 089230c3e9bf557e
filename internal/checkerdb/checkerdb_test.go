package checkerdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func seedCacheDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE CacheEntry (
		guid TEXT,
		timestamp REAL,
		tries INTEGER,
		etag TEXT,
		data TEXT
	)`)
	require.NoError(t, err)

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC).Unix()
	_, err = db.Exec(`INSERT INTO CacheEntry (guid, timestamp, tries, etag, data) VALUES
		('site-a', ?, 1, '', 'content v2'),
		('site-a', ?, 1, '', 'content v1'),
		('site-b', ?, 3, '', NULL)`,
		base, base-3600, base-60)
	require.NoError(t, err)

	return path
}

func TestInspector_Snapshot_GroupsPerSite(t *testing.T) {
	t.Parallel()

	ins := NewInspector(seedCacheDB(t), nil)
	entries, err := ins.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byGUID := map[string]SiteEntry{}
	for _, e := range entries {
		byGUID[e.GUID] = e
	}

	a := byGUID["site-a"]
	require.Equal(t, 2, a.EntryCount)
	require.True(t, a.HasData)
	require.Equal(t, len("content v2"), a.DataLength)
	require.Equal(t, time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC), a.LastCheck)

	b := byGUID["site-b"]
	require.Equal(t, 1, b.EntryCount)
	require.False(t, b.HasData)
	require.Equal(t, 3, b.Tries)
}

func TestInspector_Snapshot_MissingDB(t *testing.T) {
	t.Parallel()

	ins := NewInspector(filepath.Join(t.TempDir(), "absent.db"), nil)
	_, err := ins.Snapshot(context.Background())
	require.True(t, errors.Is(err, ErrCacheDBNotFound))
}

func TestInspector_Snapshot_EmptyPath(t *testing.T) {
	t.Parallel()

	ins := NewInspector("", nil)
	_, err := ins.Snapshot(context.Background())
	require.True(t, errors.Is(err, ErrCacheDBNotFound))
}

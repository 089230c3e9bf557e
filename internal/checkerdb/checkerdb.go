// Package checkerdb reads the external checker's own SQLite cache to enrich
// reports with per-site history the run artifacts alone cannot provide.
package checkerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var ErrCacheDBNotFound = errors.New("checker cache database not found")

// SiteEntry summarizes one watched site (keyed by the checker's guid) from
// the cache: latest check outcome plus how much history the checker kept.
type SiteEntry struct {
	GUID       string
	LastCheck  time.Time
	Tries      int
	HasData    bool
	DataLength int
	EntryCount int
}

type Inspector struct {
	path   string
	logger *zap.SugaredLogger
}

func NewInspector(path string, logger *zap.SugaredLogger) *Inspector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Inspector{path: path, logger: logger}
}

// Snapshot groups the checker's CacheEntry rows per guid, newest entry first
// within each site. The database is opened read-only; the checker owns it.
func (i *Inspector) Snapshot(ctx context.Context) ([]SiteEntry, error) {
	if i.path == "" {
		return nil, ErrCacheDBNotFound
	}
	if _, err := os.Stat(i.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheDBNotFound
		}
		return nil, fmt.Errorf("stat cache db: %w", err)
	}

	db, err := sqlx.Open("sqlite", "file:"+i.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
SELECT guid,
       timestamp,
       tries,
       CASE WHEN data IS NULL THEN 0 ELSE 1 END AS has_data,
       COALESCE(length(data), 0) AS data_length
FROM CacheEntry
ORDER BY guid, timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("query cache entries: %w", err)
	}
	defer rows.Close()

	var (
		entries []SiteEntry
		current *SiteEntry
	)
	for rows.Next() {
		var (
			guid       string
			ts         sql.NullFloat64
			tries      sql.NullInt64
			hasData    int
			dataLength int
		)
		if err := rows.Scan(&guid, &ts, &tries, &hasData, &dataLength); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}

		if current == nil || current.GUID != guid {
			entries = append(entries, SiteEntry{GUID: guid})
			current = &entries[len(entries)-1]

			// First row per guid is the latest entry.
			if ts.Valid {
				current.LastCheck = time.Unix(int64(ts.Float64), 0).UTC()
			}
			current.Tries = int(tries.Int64)
			current.HasData = hasData == 1
			current.DataLength = dataLength
		}
		current.EntryCount++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}

	i.logger.Debugw("cache_db_snapshot", "path", i.path, "sites", len(entries))
	return entries, nil
}

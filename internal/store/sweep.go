package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// Sweeper retires run records older than the retention cutoff together with
// their artifacts. Per entry the artifact goes first and the record last, so
// a crash mid-sweep can leave a record whose artifact is already gone but
// never an unowned artifact; the next sweep finishes the job.
type Sweeper struct {
	store  *Store
	logger *zap.SugaredLogger
}

func NewSweeper(store *Store, logger *zap.SugaredLogger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sweeper{store: store, logger: logger}
}

// Sweep removes every record whose end time is older than now minus maxAge.
// A zero or negative maxAge means retention is disabled; nothing is removed.
// Re-running on an already-clean store is a no-op.
func (s *Sweeper) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	cutoff := now.Add(-maxAge)

	recs, err := s.store.List(0)
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}

	removed := 0
	for _, rec := range recs {
		if !rec.EndTime.Before(cutoff) {
			continue
		}

		if err := os.Remove(rec.OutputPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove artifact %s: %w", rec.OutputPath, err)
		}
		if err := s.store.Remove(rec.ID); err != nil {
			return removed, fmt.Errorf("remove record %s: %w", rec.ID, err)
		}

		s.logger.Infow("record_swept", "run_id", rec.ID, "end_time", rec.EndTime)
		removed++
	}

	if removed > 0 {
		s.logger.Infow("sweep_done", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

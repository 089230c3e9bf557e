package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/run"
)

// ArchiveSink mirrors completed run records into Postgres for long-lived
// querying beyond the local retention window. Disabled (nil db) sinks accept
// and drop records.
type ArchiveSink struct {
	db     *sqlx.DB
	logger *zap.SugaredLogger
}

func NewArchiveSink(db *sqlx.DB, logger *zap.SugaredLogger) *ArchiveSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ArchiveSink{db: db, logger: logger}
}

func (s *ArchiveSink) Name() string { return "postgres-archive" }

func (s *ArchiveSink) Publish(ctx context.Context, rec run.Record) error {
	if s.db == nil {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO run_archive (
  id, start_time, end_time, status, exit_code,
  output_path, error_line_count, site_count, clean
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`,
		rec.ID,
		rec.StartTime,
		rec.EndTime,
		string(rec.Status),
		rec.ExitCode,
		rec.OutputPath,
		rec.ErrorLineCount,
		rec.SiteCount,
		rec.Clean,
	)
	if err != nil {
		return fmt.Errorf("archive run %s: %w", rec.ID, err)
	}

	s.logger.Debugw("run_archived", "run_id", rec.ID)
	return nil
}

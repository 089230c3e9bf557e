package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/run"
)

// LatestRunKey holds the most recent run record as JSON so dashboards can
// read current status without touching the store file.
const LatestRunKey = "sitewatch:latest_run"

type StatusSink struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

func NewStatusSink(client *redis.Client, logger *zap.SugaredLogger) *StatusSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &StatusSink{client: client, logger: logger}
}

func (s *StatusSink) Name() string { return "redis-status" }

func (s *StatusSink) Publish(ctx context.Context, rec run.Record) error {
	if s.client == nil {
		return nil
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if err := s.client.Set(ctx, LatestRunKey, b, 0).Err(); err != nil {
		return fmt.Errorf("set latest run: %w", err)
	}

	s.logger.Debugw("latest_run_cached", "run_id", rec.ID)
	return nil
}

// Package scheduler runs monitoring passes on a fixed interval and sweeps
// expired records after each pass.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"sitewatch-orchestrator/config"
	"sitewatch-orchestrator/internal/orchestrator"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/store"
)

type Scheduler struct {
	interval time.Duration
	maxAge   time.Duration
	service  *orchestrator.Service
	sweeper  *store.Sweeper
	logger   *zap.SugaredLogger

	cancel context.CancelFunc
	done   chan struct{}
}

type NewSchedulerParams struct {
	fx.In

	Cfg     config.Config
	Service *orchestrator.Service
	Sweeper *store.Sweeper
	Logger  *zap.SugaredLogger
}

func NewScheduler(p NewSchedulerParams) *Scheduler {
	return &Scheduler{
		interval: p.Cfg.Schedule.Interval,
		maxAge:   time.Duration(p.Cfg.Retention.MaxAgeDays) * 24 * time.Hour,
		service:  p.Service,
		sweeper:  p.Sweeper,
		logger:   p.Logger,
	}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)
}

func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infow("scheduler_started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("scheduler_stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	rec, err := s.service.RunOnce(ctx)
	switch {
	case errors.Is(err, run.ErrBusy):
		s.logger.Warnw("scheduled_run_skipped", "reason", "busy")
		return
	case err != nil:
		s.logger.Errorw("scheduled_run_failed", "err", err)
		return
	}
	s.logger.Infow("scheduled_run_done", "run_id", rec.ID, "status", string(rec.Status))

	if removed, err := s.sweeper.Sweep(s.maxAge, time.Now().UTC()); err != nil {
		s.logger.Warnw("scheduled_sweep_failed", "err", err)
	} else if removed > 0 {
		s.logger.Infow("scheduled_sweep_done", "removed", removed)
	}
}

func Register(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}

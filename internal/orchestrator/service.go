// Package orchestrator drives one monitoring pass end to end: lock, execute,
// classify, persist, fan out to optional sinks.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/changes"
	"sitewatch-orchestrator/internal/checker"
	"sitewatch-orchestrator/internal/run"
	"sitewatch-orchestrator/internal/sites"
	"sitewatch-orchestrator/internal/store"
)

// ConfigError marks failures that abort an invocation before any run is
// attempted (missing checker binary, bad configuration). CLI maps it to a
// distinct exit code.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Sink receives completed run records. Sink failures never fail the run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, rec run.Record) error
}

type ServiceConfig struct {
	Checker   checker.Checker
	Driver    *run.Driver
	Store     *store.Store
	Tracker   *changes.Tracker
	Sinks     []Sink
	SitesFile string
	LockPath  string
	Logger    *zap.SugaredLogger
}

type Service struct {
	checker   checker.Checker
	driver    *run.Driver
	store     *store.Store
	tracker   *changes.Tracker
	sinks     []Sink
	sitesFile string
	lockPath  string
	logger    *zap.SugaredLogger
}

func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		checker:   cfg.Checker,
		driver:    cfg.Driver,
		store:     cfg.Store,
		tracker:   cfg.Tracker,
		sinks:     cfg.Sinks,
		sitesFile: cfg.SitesFile,
		lockPath:  cfg.LockPath,
		logger:    logger,
	}
}

// RunOnce executes a single monitoring pass. A checker failure, timeout, or
// abort is captured in the returned record; only configuration problems and
// a busy lock prevent a record from being written.
func (s *Service) RunOnce(ctx context.Context) (run.Record, error) {
	if err := s.checker.CheckInstalled(); err != nil {
		return run.Record{}, &ConfigError{Err: err}
	}

	lock, err := run.AcquireLock(s.lockPath)
	if err != nil {
		if errors.Is(err, run.ErrBusy) {
			return run.Record{}, err
		}
		return run.Record{}, fmt.Errorf("acquire run lock: %w", err)
	}
	defer func() {
		if rerr := lock.Release(); rerr != nil {
			s.logger.Warnw("lock_release_failed", "err", rerr)
		}
	}()

	list, siteCount := s.loadSites()

	rec, err := s.driver.Run(ctx, s.checker, siteCount)
	if err != nil {
		return run.Record{}, fmt.Errorf("execute checker: %w", err)
	}

	cls, err := run.Classify(rec.OutputPath)
	if err != nil {
		s.logger.Warnw("classify_failed", "run_id", rec.ID, "err", err)
	} else {
		rec.ErrorLineCount = len(cls.ErrorLines)
		rec.Clean = cls.IsClean() && rec.Status == run.StatusSuccess
	}

	if err := s.store.Append(rec); err != nil {
		return rec, fmt.Errorf("persist run record: %w", err)
	}

	s.recordChanges(list, cls.ChangedSites)
	s.publish(ctx, rec)

	return rec, nil
}

func (s *Service) loadSites() (sites.List, int) {
	if s.sitesFile == "" {
		return sites.List{}, 0
	}
	list, err := sites.Load(s.sitesFile)
	if err != nil {
		s.logger.Warnw("sites_file_unreadable", "path", s.sitesFile, "err", err)
		return sites.List{}, 0
	}
	return list, list.Count()
}

func (s *Service) recordChanges(list sites.List, changed []string) {
	if s.tracker == nil {
		return
	}
	for _, url := range changed {
		name := list.NameFor(url)
		if err := s.tracker.Record(name, url, "changed", 0); err != nil {
			s.logger.Warnw("change_record_failed", "url", url, "err", err)
		}
	}
}

func (s *Service) publish(ctx context.Context, rec run.Record) {
	if len(s.sinks) == 0 {
		return
	}
	// Sinks still run when the pass itself was aborted.
	sinkCtx := context.WithoutCancel(ctx)
	for _, sink := range s.sinks {
		if err := sink.Publish(sinkCtx, rec); err != nil {
			s.logger.Warnw("sink_publish_failed", "sink", sink.Name(), "run_id", rec.ID, "err", err)
		}
	}
}

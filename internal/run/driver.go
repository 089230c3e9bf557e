package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/checker"
)

const artifactTimeFormat = "20060102T150405Z"

type DriverConfig struct {
	ArtifactDir string
	Timeout     time.Duration
	Logger      *zap.SugaredLogger
}

// Driver executes one monitoring pass: it spawns the checker, streams its
// combined output into a fresh artifact file, and enforces the timeout.
type Driver struct {
	artifactDir string
	timeout     time.Duration
	logger      *zap.SugaredLogger

	now func() time.Time
}

func NewDriver(cfg DriverConfig) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Driver{
		artifactDir: cfg.ArtifactDir,
		timeout:     cfg.Timeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Run always produces a Record when the checker could be spawned; a non-zero
// exit, a timeout, or an operator abort is data on the Record, not an error.
// The timeout watchdog and the subprocess completion race inside cmd.Run;
// the outcome is decided once, below, from the context state.
func (d *Driver) Run(ctx context.Context, chk checker.Checker, siteCount int) (Record, error) {
	if err := os.MkdirAll(d.artifactDir, 0o755); err != nil {
		return Record{}, fmt.Errorf("create artifact dir: %w", err)
	}

	start := d.now().UTC()

	// The timestamp has one-second granularity, so back-to-back runs can
	// land on the same instant; a sequence suffix keeps each record's ID
	// and artifact distinct.
	base := start.Format(artifactTimeFormat)
	id := base
	var f *os.File
	var artifactPath string
	for seq := 2; ; seq++ {
		artifactPath = filepath.Join(d.artifactDir, "run_"+id+".log")
		var err error
		f, err = os.OpenFile(artifactPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return Record{}, fmt.Errorf("create artifact: %w", err)
		}
		id = fmt.Sprintf("%s_%d", base, seq)
	}

	d.logger.Infow(
		"run_started",
		"checker", chk.Name(),
		"run_id", id,
		"timeout", d.timeout.String(),
	)

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	exitCode, runErr := chk.Run(runCtx, f)
	closeErr := f.Close()
	end := d.now().UTC()

	if runErr != nil && runCtx.Err() == nil {
		// The checker could not be executed at all; no outcome to record.
		_ = os.Remove(artifactPath)
		return Record{}, runErr
	}
	if closeErr != nil {
		d.logger.Warnw("artifact_close_failed", "run_id", id, "err", closeErr)
	}

	status := StatusSuccess
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		status = StatusTimeout
	case errors.Is(runCtx.Err(), context.Canceled):
		status = StatusAborted
	case exitCode != 0:
		status = StatusFailure
	}

	rec := Record{
		ID:         id,
		StartTime:  start,
		EndTime:    end,
		Status:     status,
		ExitCode:   exitCode,
		OutputPath: artifactPath,
		SiteCount:  siteCount,
	}

	d.logger.Infow(
		"run_finished",
		"run_id", id,
		"status", string(status),
		"exit_code", exitCode,
		"duration", end.Sub(start).Round(time.Millisecond).String(),
	)

	return rec, nil
}

package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type ExecCheckerConfig struct {
	Cmd     string
	Args    []string
	WorkDir string
	Logger  *zap.SugaredLogger
}

// ExecChecker runs the configured tool as a subprocess with combined
// stdout/stderr written to the caller's stream.
type ExecChecker struct {
	cmd     string
	args    []string
	workDir string
	logger  *zap.SugaredLogger

	execCommandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
	lookPath           func(file string) (string, error)
}

func NewExecChecker(cfg ExecCheckerConfig) *ExecChecker {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ExecChecker{
		cmd:                cfg.Cmd,
		args:               cfg.Args,
		workDir:            cfg.WorkDir,
		logger:             logger,
		execCommandContext: exec.CommandContext,
		lookPath:           exec.LookPath,
	}
}

func (c *ExecChecker) Name() string {
	return filepath.Base(c.cmd)
}

func (c *ExecChecker) CheckInstalled() error {
	if strings.TrimSpace(c.cmd) == "" {
		return fmt.Errorf("missing checker command")
	}
	if _, err := c.lookPath(c.cmd); err != nil {
		return fmt.Errorf("checker %q not found: %w", c.cmd, err)
	}
	return nil
}

// Run executes the tool and streams combined stdout/stderr to output. A
// non-zero exit is reported through exitCode, not err; err is reserved for
// failures to execute at all (binary missing, permission, ...).
func (c *ExecChecker) Run(ctx context.Context, output io.Writer) (int, error) {
	cmd := c.execCommandContext(ctx, c.cmd, c.args...)
	if c.workDir != "" {
		cmd.Dir = c.workDir
	}
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("executing %s: %w", c.cmd, err)
	}
	return 0, nil
}

var _ Checker = (*ExecChecker)(nil)

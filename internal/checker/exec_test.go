package checker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"testing"
)

func TestExecChecker_Name(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "/usr/local/bin/urlwatch"})
	if got := c.Name(); got != "urlwatch" {
		t.Fatalf("expected urlwatch, got %q", got)
	}
}

func TestExecChecker_CheckInstalled_MissingCmd(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "  "})
	if err := c.CheckInstalled(); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestExecChecker_CheckInstalled_NotOnPath(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "definitely-not-a-real-checker"})
	c.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	if err := c.CheckInstalled(); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}

func TestExecChecker_Run_StreamsCombinedOutput(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "checker"})
	c.execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo out; echo err 1>&2")
	}

	var buf bytes.Buffer
	code, err := c.Run(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if got := buf.String(); got != "out\nerr\n" {
		t.Fatalf("unexpected combined output: %q", got)
	}
}

func TestExecChecker_Run_NonZeroExitIsData(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "checker"})
	c.execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "exit 3")
	}

	var buf bytes.Buffer
	code, err := c.Run(context.Background(), &buf)
	if err != nil {
		t.Fatalf("expected nil error for non-zero exit, got %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit 3, got %d", code)
	}
}

func TestExecChecker_Run_ExecFailureIsError(t *testing.T) {
	t.Parallel()

	c := NewExecChecker(ExecCheckerConfig{Cmd: "checker"})
	c.execCommandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, fmt.Sprintf("no-such-binary-%d", 42))
	}

	var buf bytes.Buffer
	if _, err := c.Run(context.Background(), &buf); err == nil {
		t.Fatalf("expected error when binary cannot be executed")
	}
}

package checker

import (
	"context"
	"io"
)

// Checker is the narrow adapter over the external change-detection tool.
// The orchestrator only cares about the command's exit code and its combined
// output stream; everything else about the tool is opaque.
type Checker interface {
	Name() string
	CheckInstalled() error
	Run(ctx context.Context, output io.Writer) (exitCode int, err error)
}

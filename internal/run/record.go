package run

import "time"

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusTimeout Status = "timeout"
	StatusAborted Status = "aborted"
)

// Record describes one execution outcome. Immutable once appended to the
// store; its OutputPath points at the captured combined-output artifact.
type Record struct {
	ID             string    `json:"id" validate:"required"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
	Status         Status    `json:"status" validate:"required,oneof=success failure timeout aborted"`
	ExitCode       int       `json:"exit_code"`
	OutputPath     string    `json:"output_path" validate:"required"`
	ErrorLineCount int       `json:"error_line_count" validate:"min=0"`
	SiteCount      int       `json:"site_count" validate:"min=0"`
	Clean          bool      `json:"clean"`
}

// Duration is derived, not stored.
func (r Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

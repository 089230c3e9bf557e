package report

import (
	"fmt"
	"strings"
	"time"

	"sitewatch-orchestrator/internal/run"
)

const timeLayout = "2006-01-02 15:04:05"

// Render produces the Markdown digest for the given records (expected
// newest-first, as returned by the store). It is deterministic: the same
// records always yield byte-identical text, so the digest itself can be
// diffed for changes.
func Render(records []run.Record) string {
	var b strings.Builder

	b.WriteString("# Monitoring Run Summary\n\n")

	if len(records) == 0 {
		b.WriteString("No runs recorded.\n")
		return b.String()
	}

	b.WriteString(headline(records[0]))
	b.WriteString("\n\n")

	b.WriteString("| Run | Started (UTC) | Duration | Status | Sites | Error lines |\n")
	b.WriteString("|-----|---------------|----------|--------|-------|-------------|\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d |\n",
			rec.ID,
			rec.StartTime.UTC().Format(timeLayout),
			rec.Duration().Round(time.Second).String(),
			statusCell(rec.Status),
			rec.SiteCount,
			rec.ErrorLineCount,
		)
	}

	return b.String()
}

func headline(rec run.Record) string {
	switch rec.Status {
	case run.StatusTimeout:
		return fmt.Sprintf("Latest run `%s`: ⏱️ checker exceeded its time budget and was terminated.", rec.ID)
	case run.StatusAborted:
		return fmt.Sprintf("Latest run `%s`: run was aborted by the operator.", rec.ID)
	case run.StatusFailure:
		return fmt.Sprintf("Latest run `%s`: ❌ checker exited with code %d.", rec.ID, rec.ExitCode)
	}
	if rec.Clean {
		return fmt.Sprintf("Latest run `%s`: ✅ all sites processed successfully.", rec.ID)
	}
	return fmt.Sprintf("Latest run `%s`: ⚠️ %d error line(s) detected.", rec.ID, rec.ErrorLineCount)
}

func statusCell(s run.Status) string {
	switch s {
	case run.StatusSuccess:
		return "✅ success"
	case run.StatusFailure:
		return "❌ failure"
	case run.StatusTimeout:
		return "⏱️ timeout"
	case run.StatusAborted:
		return "🛑 aborted"
	default:
		return string(s)
	}
}

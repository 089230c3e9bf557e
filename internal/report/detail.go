package report

import (
	"fmt"
	"sort"
	"strings"

	"sitewatch-orchestrator/internal/checkerdb"
	"sitewatch-orchestrator/internal/run"
)

// RenderDetailed extends the run digest with per-site history taken from the
// checker's cache database. nameFor resolves a cache guid to a readable site
// name; unknown guids fall back to the guid itself.
func RenderDetailed(records []run.Record, sites []checkerdb.SiteEntry, nameFor func(guid string) string) string {
	var b strings.Builder
	b.WriteString(Render(records))

	if len(sites) == 0 {
		return b.String()
	}
	if nameFor == nil {
		nameFor = func(guid string) string { return guid }
	}

	type row struct {
		name  string
		entry checkerdb.SiteEntry
	}
	rows := make([]row, 0, len(sites))
	for _, e := range sites {
		name := nameFor(e.GUID)
		if name == "" {
			name = e.GUID
		}
		rows = append(rows, row{name: name, entry: e})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].entry.GUID < rows[j].entry.GUID
	})

	b.WriteString("\n## Site Details\n\n")
	b.WriteString("| Site | Last check (UTC) | Status | History entries | Data size |\n")
	b.WriteString("|------|------------------|--------|-----------------|-----------|\n")
	for _, r := range rows {
		lastCheck := "never"
		if !r.entry.LastCheck.IsZero() {
			lastCheck = r.entry.LastCheck.UTC().Format(timeLayout)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d |\n",
			r.name,
			lastCheck,
			siteStatusCell(r.entry),
			r.entry.EntryCount,
			r.entry.DataLength,
		)
	}
	return b.String()
}

func siteStatusCell(e checkerdb.SiteEntry) string {
	status := "❌ ERROR"
	if e.HasData {
		status = "✅ OK"
	}
	if e.Tries > 1 {
		status += fmt.Sprintf(" (%d tries)", e.Tries)
	}
	return status
}

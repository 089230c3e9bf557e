package run

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	errorMarker   = "ERROR:"
	changedMarker = "CHANGED: "
)

// Classification partitions one artifact's lines into error markers and
// changed-site notices. Order of ErrorLines follows the artifact.
type Classification struct {
	ErrorLines   []string
	ChangedSites []string
}

func (c Classification) IsClean() bool {
	return len(c.ErrorLines) == 0
}

// Classify scans the artifact line by line. It is a pure function of the
// file contents and holds at most one line in memory.
func Classify(artifactPath string) (Classification, error) {
	f, err := os.Open(artifactPath)
	if err != nil {
		return Classification{}, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var out Classification
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, errorMarker):
			out.ErrorLines = append(out.ErrorLines, line)
		case strings.HasPrefix(line, changedMarker):
			site := strings.TrimSpace(strings.TrimPrefix(line, changedMarker))
			if site != "" {
				out.ChangedSites = append(out.ChangedSites, site)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Classification{}, fmt.Errorf("scan artifact: %w", err)
	}
	return out, nil
}

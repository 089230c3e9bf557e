// Package changes keeps a per-site history of detected changes, keyed by the
// same guid the checker derives from each URL.
package changes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/sites"
)

// Only the most recent changes are kept per site.
const maxChangesPerSite = 50

type Change struct {
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"`
	ContentLength int       `json:"content_length"`
}

type SiteHistory struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	FirstSeen  time.Time `json:"first_seen"`
	LastChange time.Time `json:"last_change"`
	Changes    []Change  `json:"changes"`
}

// RecentChange is one row of the "latest changes" view, newest first.
type RecentChange struct {
	Name      string
	URL       string
	Timestamp time.Time
	Type      string
}

type Tracker struct {
	path   string
	logger *zap.SugaredLogger

	now func() time.Time
	mu  sync.Mutex
}

func NewTracker(path string, logger *zap.SugaredLogger) *Tracker {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Tracker{path: path, logger: logger, now: time.Now}
}

// Record appends one change for the site, creating its history on first
// sight and trimming it to the retention cap.
func (t *Tracker) Record(name, url, changeType string, contentLength int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	history, err := t.load()
	if err != nil {
		return err
	}

	now := t.now().UTC()
	guid := sites.GUID(url)

	entry, ok := history[guid]
	if !ok {
		entry = SiteHistory{Name: name, URL: url, FirstSeen: now}
	}
	if name != "" {
		entry.Name = name
	}
	entry.Changes = append(entry.Changes, Change{
		Timestamp:     now,
		Type:          changeType,
		ContentLength: contentLength,
	})
	if len(entry.Changes) > maxChangesPerSite {
		entry.Changes = entry.Changes[len(entry.Changes)-maxChangesPerSite:]
	}
	entry.LastChange = now
	history[guid] = entry

	t.logger.Infow("change_recorded", "site", entry.Name, "url", url, "type", changeType)
	return t.save(history)
}

// History returns the full per-site map keyed by guid.
func (t *Tracker) History() (map[string]SiteHistory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// Recent flattens the history into the newest changes across all sites.
// limit <= 0 returns everything.
func (t *Tracker) Recent(limit int) ([]RecentChange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	history, err := t.load()
	if err != nil {
		return nil, err
	}

	var out []RecentChange
	for _, entry := range history {
		for _, c := range entry.Changes {
			out = append(out, RecentChange{
				Name:      entry.Name,
				URL:       entry.URL,
				Timestamp: c.Timestamp,
				Type:      c.Type,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].URL < out[j].URL
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *Tracker) load() (map[string]SiteHistory, error) {
	b, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]SiteHistory{}, nil
		}
		return nil, fmt.Errorf("read change history: %w", err)
	}

	history := map[string]SiteHistory{}
	if err := json.Unmarshal(b, &history); err != nil {
		// A torn write loses the history, not the run; start fresh.
		t.logger.Warnw("change_history_unreadable", "path", t.path, "err", err)
		return map[string]SiteHistory{}, nil
	}
	return history, nil
}

func (t *Tracker) save(history map[string]SiteHistory) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	b, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal change history: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write change history: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace change history: %w", err)
	}
	return nil
}

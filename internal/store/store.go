package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"sitewatch-orchestrator/internal/run"
)

// Store persists run records as one JSON object per line. Appends never touch
// prior lines, so a crash mid-write can at worst corrupt the final line; such
// lines are skipped on read with a warning.
type Store struct {
	path     string
	logger   *zap.SugaredLogger
	validate *validator.Validate

	mu sync.Mutex
}

func New(path string, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{
		path:     path,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Append(rec run.Record) error {
	if err := s.validate.Struct(rec); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	b = append(b, '\n')
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// List returns records newest-first by start time. limit <= 0 returns all.
func (s *Store) List(limit int) ([]run.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].StartTime.After(recs[j].StartTime)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Remove rewrites the store without the given record. Removing an unknown id
// is a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return err
	}

	kept := recs[:0]
	for _, rec := range recs {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	return s.rewrite(kept)
}

func (s *Store) readAll() ([]run.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	var recs []run.Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec run.Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.ID == "" {
			s.logger.Warnw("store_corrupt_line_skipped", "path", s.path, "line", lineNo)
			continue
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan store: %w", err)
	}
	return recs, nil
}

// rewrite replaces the store contents atomically via a temp file rename.
func (s *Store) rewrite(recs []run.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpPath := tmp.Name()

	// Preserve the original on-disk order: oldest first.
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].StartTime.Before(recs[j].StartTime)
	})

	w := bufio.NewWriter(tmp)
	for _, rec := range recs {
		b, err := json.Marshal(rec)
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return fmt.Errorf("marshal record: %w", err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
			return fmt.Errorf("write temp store: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("flush temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

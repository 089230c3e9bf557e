package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrBusy is returned when a prior run still holds the lock. Callers must
// surface a busy condition instead of blocking.
var ErrBusy = errors.New("another run is in progress")

type lockInfo struct {
	Token      string    `json:"token"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Lock is the mutual-exclusion marker preventing overlapping runs. The token
// is explicit: Release refuses to remove a lock file written by someone else.
type Lock struct {
	path  string
	token string
}

// AcquireLock creates the lock file exclusively. An existing file means a run
// is already in progress.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	defer f.Close()

	info := lockInfo{
		Token:      uuid.NewString(),
		PID:        os.Getpid(),
		AcquiredAt: time.Now().UTC(),
	}
	if err := json.NewEncoder(f).Encode(info); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: path, token: info.Token}, nil
}

func (l *Lock) Token() string { return l.token }

// Release removes the lock file if it still carries this lock's token.
func (l *Lock) Release() error {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read lock file: %w", err)
	}

	var info lockInfo
	if err := json.Unmarshal(b, &info); err == nil && info.Token != l.token {
		return fmt.Errorf("lock token mismatch: held by %s", info.Token)
	}

	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

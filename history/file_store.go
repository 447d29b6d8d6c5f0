package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// FileName is the default name of the JSON file.
	FileName = "recent_svg_files.json"

	filePermission = 0o644
	lockTimeout    = time.Second
	lockRetryDelay = 50 * time.Millisecond
)

var errLockBusy = errors.New("history file is locked by another process")

// FileStore keeps the list in a JSON file, guarded by
// an advisory lock file so that several processes may share it.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore uses the JSON file at `path`, which is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the location of the JSON file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) acquire(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire history lock: %w", err)
	}
	if !locked {
		return errLockBusy
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.lock.Unlock() //nolint:errcheck

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return unmarshal(data)
}

func (s *FileStore) Save(ctx context.Context, entries []Entry) error {
	data, err := marshal(entries)
	if err != nil {
		return err
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock() //nolint:errcheck

	// write then rename, so that readers never see a partial file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermission); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

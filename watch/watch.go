// Package watch calls a function each time a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/mrmelon54/rescheduler"
)

// Watcher follows one file. The parent directory is watched, so that
// editors replacing the file (write to temp, then rename) are seen.
//
// Bursts of events are coalesced: the callback never runs concurrently
// with itself, and events received while it runs trigger one more call.
type Watcher struct {
	path   string
	fs     *fsnotify.Watcher
	r      *rescheduler.Rescheduler
	logger *log.Logger
}

// New starts watching `path`. `onChange` is called from a background
// goroutine. A nil logger discards messages.
func New(path string, onChange func(), logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{
		path:   abs,
		fs:     fs,
		r:      rescheduler.NewRescheduler(onChange),
		logger: logger,
	}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string { return w.path }

// Run dispatches events until `ctx` is done or the watcher fails,
// then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.logger.Debug("file changed", "path", event.Name, "op", event.Op)
				w.r.Run()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

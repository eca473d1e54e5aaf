// Package watch calls back when a local file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a burst of events must be quiet before the
// callback runs.
const Debounce = 100 * time.Millisecond

const (
	rewatchAttempts = 5
	rewatchInterval = 100 * time.Millisecond
)

// Watcher watches a single file.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// New starts watching path. Events are only delivered once Run is called.
func New(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &Watcher{path: path, watcher: w}, nil
}

// Run calls fn after each settled burst of changes until ctx is done,
// then closes the watcher. fn runs on Run's goroutine.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	defer w.watcher.Close()
	slog.Info("watch: watching", "path", w.path)

	timer := time.NewTimer(Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handle(ctx, event) {
				continue
			}
			timer.Reset(Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch: watcher error", "path", w.path, "err", err)

		case <-timer.C:
			slog.Debug("watch: changed", "path", w.path)
			fn()
		}
	}
}

// handle reports whether event changed the file's contents.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) bool {
	slog.Debug("watch: event", "path", event.Name, "op", event.Op.String())

	switch {
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		return true
	case event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove):
		// Editors that save by renaming a new file into place drop the
		// watch along with the old inode.
		return w.rewatch(ctx)
	}
	return false
}

func (w *Watcher) rewatch(ctx context.Context) bool {
	w.watcher.Remove(w.path) //nolint:errcheck

	for attempt := 1; attempt <= rewatchAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(rewatchInterval):
		}
		if err := w.watcher.Add(w.path); err == nil {
			slog.Debug("watch: re-added", "path", w.path, "attempt", attempt)
			return true
		}
	}
	slog.Warn("watch: file is gone, giving up", "path", w.path)
	return false
}

// Run watches path and calls fn after each change until ctx is done.
func Run(ctx context.Context, path string, fn func()) error {
	w, err := New(path)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}

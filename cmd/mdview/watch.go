package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the burst of events an editor emits per save.
const defaultDebounce = 250 * time.Millisecond

// documentWatcher reports changes to a single document. It watches the
// document's directory so that saves which replace the file are still seen.
type documentWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// newDocumentWatcher starts watching the directory containing path.
func newDocumentWatcher(path string, debounce time.Duration, logger *slog.Logger) (*documentWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	logger.Info("watching document", "path", absPath)
	return &documentWatcher{
		path:     absPath,
		debounce: debounce,
		logger:   logger,
		watcher:  watcher,
	}, nil
}

// Run calls reload once per burst of changes to the document until ctx is
// done. Reloads run on the calling goroutine and never overlap.
// The watcher is closed when Run returns.
func (w *documentWatcher) Run(ctx context.Context, reload func(context.Context)) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("closing file watcher", "error", err)
		}
	}()

	name := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&fsnotify.Remove != 0 {
				// Editors that save by delete-and-create follow with a Create.
				w.logger.Debug("document removed", "path", event.Name)
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("document changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			reload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader re-imports the catalog file whenever the data-collection
// pipeline rewrites it. The parent directory is watched rather than the
// file itself so atomic rename-into-place rewrites are still seen, and
// events are debounced because a rewrite arrives as a burst.
type Reloader struct {
	importer *Importer
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewReloader creates a reloader for one catalog file.
func NewReloader(importer *Importer, path string, logger *slog.Logger) *Reloader {
	return &Reloader{
		importer: importer,
		path:     filepath.Clean(path),
		debounce: 500 * time.Millisecond,
		logger:   logger,
	}
}

// Run watches until the context is cancelled. It blocks; callers run it in
// a goroutine.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(r.path), err)
	}
	r.logger.Info("watching catalog file", "path", r.path)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			count, err := r.importer.ImportFile(ctx, r.path)
			if err != nil {
				// The pipeline may still be writing; the next event
				// triggers another attempt.
				r.logger.Warn("catalog reload failed", "path", r.path, "error", err)
				continue
			}
			r.logger.Info("catalog reloaded", "path", r.path, "books", count)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("catalog watcher error", "error", err)
		}
	}
}

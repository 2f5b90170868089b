// Package watch re-runs a callback whenever a score file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// File watches path and calls onChange each time it is written or
// re-created. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that
// editors saving through rename are still seen. An error returned by
// onChange is logged and watching continues.
func File(ctx context.Context, path string, onChange func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	slog.Info("Watching for changes", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			slog.Debug("File changed", "path", abs, "op", event.Op.String())
			if err := onChange(); err != nil {
				slog.Error("Re-analysis failed", "path", abs, "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", "err", err)
		}
	}
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gopkg.in/fsnotify.v1"

	"github.com/m3rciful/tourbot/core/logger"
)

// Watch invalidates cached catalogs whenever files in the data directory change.
// It returns once the watcher is registered; the event loop stops when ctx is done.
func (r *Repository) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: watcher: %w", err)
	}
	if err := watcher.Add(r.dataDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("catalog: watch %s: %w", r.dataDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				r.Invalidate(name)
				logger.Catalog.LogAttrs(ctx, slog.LevelInfo, "catalog.invalidated",
					slog.String("path", name),
					slog.String("op", event.Op.String()),
					slog.String("cache", "refresh"),
				)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Catalog.LogAttrs(ctx, slog.LevelWarn, "catalog.watch_error",
					slog.String("err", err.Error()),
				)
			}
		}
	}()
	return nil
}

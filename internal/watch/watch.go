// Package watch re-runs a callback whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce drops repeats of the same event fired in quick succession.
const debounce = 5 * time.Millisecond

// Watch blocks until ctx is done, calling onChange each time filename is
// created or written. Removal is logged and otherwise ignored so editors that
// replace files on save keep working.
func Watch(ctx context.Context, filename string, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher for %s: %w", filename, err)
	}
	defer func() {
		if e := watcher.Close(); e != nil {
			logger.LogAttrs(ctx, slog.LevelWarn, "failed to close watcher",
				slog.String("file", filename),
				slog.Any("error", e),
			)
		}
	}()

	// Watch the directory so renames and symlink swaps are seen.
	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	realPath, err := filepath.EvalSymlinks(filename)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", filename, err)
	}
	realPath = filepath.Clean(realPath)
	cleanPath := filepath.Clean(filename)

	var (
		lastEvent     string
		lastEventTime time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.String() == lastEvent && time.Since(lastEventTime) < debounce {
				continue
			}
			lastEvent = event.String()
			lastEventTime = time.Now()

			name := filepath.Clean(event.Name)
			if name != realPath && name != cleanPath {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove):
				logger.LogAttrs(ctx, slog.LevelWarn, "watched file removed",
					slog.String("file", filename),
				)
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				logger.LogAttrs(ctx, slog.LevelDebug, "watched file changed",
					slog.String("file", filename),
					slog.String("op", event.Op.String()),
				)
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogAttrs(ctx, slog.LevelWarn, "watch error",
				slog.String("file", filename),
				slog.Any("error", err),
			)

		case <-ctx.Done():
			return nil
		}
	}
}

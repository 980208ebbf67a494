// Package watch re-runs the translation synchronizer whenever a
// source-language dictionary is created or written.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/at-ishikawa/l10nkit/internal/datasync"
)

type Syncer interface {
	Sync(ctx context.Context) (datasync.Result, error)
}

// SyncCallback is called after every run of the synchronizer.
type SyncCallback func(result datasync.Result, err error)

// Watch runs one sync, then watches root recursively and syncs again once
// .json events have been quiet for debounce. It returns when ctx is done.
func Watch(ctx context.Context, root string, debounce time.Duration, syncer Syncer, cb SyncCallback) error {
	logger := slog.Default()

	runSync := func() {
		result, err := syncer.Sync(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watch: sync failed", slog.Any("error", err))
		}
		if cb != nil {
			cb(result, err)
		}
	}
	runSync()
	if ctx.Err() != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher > %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	if err := addDirsRecursive(w, root); err != nil {
		return fmt.Errorf("addDirsRecursive(%s) > %w", root, err)
	}
	logger.Info("watch: started", slog.String("root", root))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			runSync()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watch: add new dir failed", slog.String("path", ev.Name), slog.Any("error", addErr))
					}
					schedule()
					continue
				}
			}

			if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				logger.Debug("watch: dictionary changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.Any("error", watchErr))
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

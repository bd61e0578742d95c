// Package watch re-runs a callback when declaration files change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events (editors often
// write several events per save) into a single callback.
const debounceDelay = 100 * time.Millisecond

// Watcher re-runs a callback whenever *.yml / *.yaml files under a
// directory tree change.
type Watcher struct {
	dir      string
	logger   *slog.Logger
	onChange func()
}

// New creates a watcher over dir. onChange is invoked after each
// debounced batch of changes.
func New(dir string, logger *slog.Logger, onChange func()) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{dir: dir, logger: logger, onChange: onChange}
}

// Run watches until ctx is cancelled. New subdirectories are picked up
// as they appear.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addDirs(fsw, w.dir); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			// Newly created directories need watching too.
			if event.Has(fsnotify.Create) {
				if err := addDirs(fsw, event.Name); err == nil {
					w.logger.Debug("watching new path", "path", event.Name)
				}
			}
			if !isDeclFile(event.Name) {
				continue
			}
			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.onChange()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// addDirs registers root and all its subdirectories, skipping hidden
// directories. Non-directory roots are ignored.
func addDirs(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may have vanished between event and walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && name != "." && path != root {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// isDeclFile reports whether path looks like a declaration file.
func isDeclFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

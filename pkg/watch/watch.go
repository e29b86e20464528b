// Package watch re-runs the indexer whenever the source tree changes.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

// DefaultDebounce is the quiet period before a change triggers a run
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one full index run
type RunFunc func(ctx context.Context) error

// Watcher triggers RunFunc after bursts of filesystem events under a root
// directory. Runs are serialized on the event loop, so two never overlap.
type Watcher struct {
	root     string
	debounce time.Duration
	run      RunFunc
	ignore   map[string]bool
	logger   *logrus.Entry
}

// New creates a watcher for root. Events on the ignore paths (for example the
// generated index, when it lives inside root) never trigger a run.
func New(root string, debounce time.Duration, run RunFunc, logger *logrus.Entry, ignore ...string) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	ignored := make(map[string]bool, len(ignore))
	for _, p := range ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignored[abs] = true
		}
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		run:      run,
		ignore:   ignored,
		logger:   logger.WithField("component", "watch"),
	}
}

// Run watches until ctx is cancelled. Errors from RunFunc are logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addWatches(fsw, w.root); err != nil {
		return err
	}
	w.logger.WithField("root", w.root).Info("Watching for changes")

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(fsw, event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("File watcher error")

		case <-timerC:
			timer, timerC = nil, nil
			if err := w.run(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.WithError(err).Error("Index run failed")
			}
		}
	}
}

// handleEvent reports whether event should schedule a run
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if abs, err := filepath.Abs(event.Name); err == nil && w.ignore[abs] {
		return false
	}

	w.logger.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("Change detected")

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addWatches(fsw, event.Name); err != nil {
				w.logger.WithError(err).WithField("path", event.Name).Warn("Failed to watch new directory")
			}
		}
	}
	return true
}

// addWatches adds a watch for dir and every directory below it
func (w *Watcher) addWatches(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Fingerprint hashes the material set. generated_at is not part of it, so two
// scans of an unchanged tree have the same fingerprint.
func Fingerprint(items []models.MaterialItem) uint64 {
	data, err := json.Marshal(items)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

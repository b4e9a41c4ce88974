package monorepo

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/repolens/repolens/internal/logging"
)

// Watcher invalidates a detector's glob cache when the repository
// changes on disk. Long-lived MCP sessions use it so a later
// detection sees newly added workspaces without constructing a fresh
// detector.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	detector *Detector
	debounce time.Duration
	stopChan chan struct{}
	eventsMu sync.Mutex
	timer    *time.Timer
}

// NewWatcher creates a watcher for root that clears the detector's
// cache after a quiet period following filesystem events.
func NewWatcher(root string, detector *Detector, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		watcher:  w,
		root:     root,
		detector: detector,
		debounce: debounce,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching the directory tree.
func (w *Watcher) Start() {
	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			base := filepath.Base(path)
			if isDependencyDir(base) {
				return filepath.SkipDir
			}
			if strings.HasPrefix(base, ".") && path != w.root {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				logging.Default().Warn("unable to watch %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		logging.Default().Warn("error walking directory for watcher setup: %v", err)
	}

	logging.Default().Debug("watcher started for %s", w.root)
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			// New directories join the watch set so workspaces added
			// later still trigger invalidation.
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					base := filepath.Base(event.Name)
					if !isDependencyDir(base) && !strings.HasPrefix(base, ".") {
						if err := w.watcher.Add(event.Name); err != nil {
							logging.Default().Warn("unable to watch new dir %s: %v", event.Name, err)
						}
					}
				}
			}

			w.triggerDebouncedInvalidate()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Default().Error("watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) triggerDebouncedInvalidate() {
	w.eventsMu.Lock()
	defer w.eventsMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		logging.Default().Debug("file changes detected in %s, clearing detection cache", w.root)
		w.detector.ClearCache()
	})
}

// Stop ends the watch loop.
func (w *Watcher) Stop() {
	close(w.stopChan)
}

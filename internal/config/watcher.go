package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const watchDebounce = 500 * time.Millisecond

// ProfilesWatcher reloads the profile store when the profiles file changes
// on disk. It watches the containing directory so a file created after
// startup is still picked up.
type ProfilesWatcher struct {
	store   *ProfileStore
	watcher *fsnotify.Watcher

	mu          sync.RWMutex
	callbacks   []func(*ProfileStore)
	running     bool
	stopCh      chan struct{}
	lastModTime time.Time
}

// NewProfilesWatcher creates a watcher bound to the given store.
func NewProfilesWatcher(store *ProfileStore) (*ProfilesWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &ProfilesWatcher{
		store:   store,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
	}, nil
}

// OnReload registers a callback invoked after each successful reload.
func (w *ProfilesWatcher) OnReload(callback func(*ProfileStore)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching the profiles directory for changes.
func (w *ProfilesWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher is already running")
	}

	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if info, err := os.Stat(w.store.Path()); err == nil {
		w.lastModTime = info.ModTime()
	}

	w.running = true
	go w.watchLoop()

	logrus.Debugf("watching %s for profile changes", w.store.Path())
	return nil
}

// Stop halts the watcher and releases its resources.
func (w *ProfilesWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopCh)
	w.running = false
	return w.watcher.Close()
}

func (w *ProfilesWatcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				w.handleChange()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logrus.Warnf("profiles watcher error: %v", err)

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (w *ProfilesWatcher) handleChange() {
	info, err := os.Stat(w.store.Path())
	if err != nil {
		logrus.Debugf("profiles file stat failed after change: %v", err)
		return
	}

	w.mu.Lock()
	if !info.ModTime().After(w.lastModTime) {
		w.mu.Unlock()
		return
	}
	w.lastModTime = info.ModTime()
	w.mu.Unlock()

	if err := w.store.Reload(); err != nil {
		logrus.Warnf("failed to reload profiles: %v", err)
		return
	}

	logrus.Infof("profiles reloaded from %s", w.store.Path())

	w.mu.RLock()
	callbacks := make([]func(*ProfileStore), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		callback(w.store)
	}
}

package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"zone-editor/internal/config"
)

// ConfigWatcher watches the config file and reloads it when it changes.
// Bursts of file events (editors often write, rename and chmod in quick
// succession) are collapsed into one reload.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	onReload func(*config.Config, error) // Called from a background goroutine

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    sync.WaitGroup
}

// NewConfigWatcher creates a watcher for the config file at path. The
// directory is watched so that atomic replace-by-rename is noticed too.
func NewConfigWatcher(path string, debounce time.Duration, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &ConfigWatcher{
		path:     abs,
		debounce: debounce,
		logger:   logger,
		watcher:  w,
		stopCh:   make(chan struct{}),
	}, nil
}

// OnReload sets the callback invoked with each reloaded config. The callback
// runs on the watcher goroutine; err is non-nil when the new file was invalid.
func (w *ConfigWatcher) OnReload(callback func(*config.Config, error)) {
	w.onReload = callback
}

// Start begins watching in a background goroutine.
func (w *ConfigWatcher) Start() {
	w.done.Add(1)
	go w.watchLoop()
}

// Stop stops the watcher goroutine and releases the underlying watch.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
	w.done.Wait()
	w.watcher.Close()
}

func (w *ConfigWatcher) watchLoop() {
	defer w.done.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *ConfigWatcher) reload() {
	cfg, err := config.Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
	} else {
		w.logger.Info("config reloaded", "path", w.path)
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}

// Path returns the absolute path being watched.
func (w *ConfigWatcher) Path() string {
	return w.path
}

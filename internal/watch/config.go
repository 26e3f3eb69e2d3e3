package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/connecto-io/connecto-go/pkg/log"
)

// DefaultDebounce is the delay after the last change before acting on it.
const DefaultDebounce = 100 * time.Millisecond

// ConfigWatcher calls a reload function when a config file changes.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	reload   func(ctx context.Context)
	logger   log.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewConfigWatcher watches path. reload runs on its own goroutine after
// writes settle for debounce.
func NewConfigWatcher(path string, debounce time.Duration, reload func(ctx context.Context), logger log.Logger) *ConfigWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &ConfigWatcher{
		path:     path,
		debounce: debounce,
		reload:   reload,
		logger:   logger,
	}
}

// Run watches until ctx is done. The parent directory is watched so that
// editors that replace the file by rename are noticed.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.stopTimer()

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (w *ConfigWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.logger.Info("config file changed", log.String("path", w.path))
		w.reload(ctx)
	})
}

func (w *ConfigWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

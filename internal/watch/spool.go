package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/connecto-io/connecto-go/pkg/log"
)

// DirWatcher reports files with a given suffix that are created or
// written in a directory, once writes to each file have settled.
type DirWatcher struct {
	dir      string
	suffix   string
	debounce time.Duration
	logger   log.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDirWatcher watches dir for files ending in suffix.
func NewDirWatcher(dir, suffix string, debounce time.Duration, logger log.Logger) *DirWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &DirWatcher{
		dir:      dir,
		suffix:   suffix,
		debounce: debounce,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Run sends settled paths on out until ctx is done. It never closes out.
func (w *DirWatcher) Run(ctx context.Context, out chan<- string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.stopAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, w.suffix) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(ctx, event.Name, out)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("spool watcher error", log.Err(err))
		}
	}
}

func (w *DirWatcher) schedule(ctx context.Context, path string, out chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case out <- path:
		case <-ctx.Done():
		}
	})
}

func (w *DirWatcher) stopAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

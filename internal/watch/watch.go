// Package watch reloads an ASCII grid file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
)

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 150 * time.Millisecond

// Stats counts watcher activity.
type Stats struct {
	Events  int
	Reloads int
	Errors  int
}

// GridWatcher watches one grid file and hands every successfully parsed
// version to a callback. Bursts of writes within the debounce window
// produce one reload. Parse errors are logged and the previous grid stays
// in use.
type GridWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onLoad   func(*algoviz.Grid)
	logger   *zap.Logger
	stats    Stats

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool
}

// New creates a watcher for path. onLoad runs on the watcher goroutine.
func New(path string, debounce time.Duration, onLoad func(*algoviz.Grid), logger *zap.Logger) (*GridWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &GridWatcher{
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		onLoad:   onLoad,
		logger:   logger.With(zap.String("path", abs)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *GridWatcher) Path() string { return w.path }

// Load reads and parses the file now.
func (w *GridWatcher) Load() (*algoviz.Grid, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	g, err := algoviz.ParseGrid(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", w.path, err)
	}
	return g, nil
}

// Start begins watching. The parent directory is watched rather than the
// file so editors that save by renaming a temp file are still seen. It
// returns immediately.
func (w *GridWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher is closed")
	}
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.running = true
	w.logger.Info("watching grid file", zap.Duration("debounce", w.debounce))

	go w.run(ctx)
	return nil
}

// Close stops the watcher goroutine and releases the fsnotify handle. It
// is safe to call more than once.
func (w *GridWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	running := w.running
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Stats returns a copy of the activity counters.
func (w *GridWatcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *GridWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("grid file event", zap.String("op", event.Op.String()))
			w.mu.Lock()
			w.stats.Events++
			w.mu.Unlock()

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
			w.logger.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether event may have changed the watched file's
// contents.
func (w *GridWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *GridWatcher) reload() {
	g, err := w.Load()
	if err != nil {
		w.logger.Warn("grid reload failed", zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
	w.logger.Info("grid reloaded", zap.Int("rows", g.Rows()), zap.Int("cols", g.Cols()))

	if w.onLoad != nil {
		w.onLoad(g)
	}
}

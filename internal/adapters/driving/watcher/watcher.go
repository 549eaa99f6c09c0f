// Package watcher reloads the command index when the prompt file changes
// outside the running process.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/logger"
)

// DefaultDebounce is the quiet period before a change triggers a reload.
const DefaultDebounce = 100 * time.Millisecond

// Reloader rebuilds the command index from storage.
type Reloader interface {
	Reload(ctx context.Context) (*domain.RebuildReport, error)
}

// Watcher monitors a single file. It watches the parent directory since
// editors and atomic writers replace the file rather than modify it.
type Watcher struct {
	targetPath string
	parentPath string
	reloader   Reloader
	debounce   time.Duration
	limiter    *rate.Limiter

	mu       sync.Mutex
	timer    *time.Timer
	onReload func(*domain.RebuildReport, error)
}

// New creates a watcher for path. A zero debounce uses DefaultDebounce.
func New(path string, reloader Reloader, debounce time.Duration) (*Watcher, error) {
	if reloader == nil {
		return nil, errors.New("watcher: reloader is required")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target := filepath.Clean(path)

	return &Watcher{
		targetPath: target,
		parentPath: filepath.Dir(target),
		reloader:   reloader,
		debounce:   debounce,
		// At most a few reloads per second however noisy the directory is.
		limiter: rate.NewLimiter(rate.Every(debounce), 2),
	}, nil
}

// OnReload registers a callback invoked after every reload attempt.
func (w *Watcher) OnReload(fn func(*domain.RebuildReport, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Run watches until ctx is cancelled. The parent directory is created if
// it does not exist yet.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.parentPath, 0700); err != nil {
		return fmt.Errorf("watcher: create %s: %w", w.parentPath, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.parentPath); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", w.parentPath, err)
	}
	logger.Debug("watcher: watching %s", w.targetPath)

	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.targetPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: %s %s", event.Op, event.Name)
			w.schedule(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) reload(ctx context.Context) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	report, err := w.reloader.Reload(ctx)
	if err != nil {
		logger.Warn("watcher: reload failed: %v", err)
	} else {
		logger.Info("watcher: reloaded %d prompts (%d skipped)", report.Indexed, len(report.Skipped))
	}

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()
	if fn != nil {
		fn(report, err)
	}
}

// Package worker watches the artifact store and hot-reloads the
// recommendation engine when a new preprocessing run lands.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
)

// Worker polls the manifest of the artifact store and, when a watch
// directory is set, also checks on file events there. The manifest is
// written after every blob, so a new run ID means a complete artifact set.
type Worker struct {
	store  driven.ArtifactStore
	engine driving.RecommendationService
	logger *slog.Logger

	// Configuration
	interval time.Duration
	watchDir string

	// Internal state
	mu      sync.RWMutex
	running bool
	lastRun string
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Store    driven.ArtifactStore
	Engine   driving.RecommendationService
	Logger   *slog.Logger
	Interval time.Duration // How often the manifest is checked

	// WatchDir triggers a check on file changes in the artifact directory.
	// Polling continues either way.
	WatchDir string
}

// NewWorker creates a new reload worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	return &Worker{
		store:    cfg.Store,
		engine:   cfg.Engine,
		logger:   logger,
		interval: interval,
		watchDir: cfg.WatchDir,
	}
}

// Start begins the watch loop.
// It runs until Stop is called or context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	// The run already on disk is the baseline when the engine serves it.
	if w.engine.State() == domain.EngineLoaded {
		if m, err := w.store.Manifest(ctx); err == nil {
			w.setLastRun(m.RunID)
		}
	}

	w.watcher = w.watch()

	w.logger.Info("reload worker starting",
		"interval", w.interval,
		"watching", w.watcher != nil,
		"run_id", w.LastRun(),
	)

	go w.loop(ctx)
	return nil
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("reload worker stopped")
}

// Wait blocks until the worker stops.
func (w *Worker) Wait() {
	<-w.doneCh
}

// LastRun returns the run ID of the artifacts the engine last loaded.
func (w *Worker) LastRun() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastRun
}

func (w *Worker) setLastRun(id string) {
	w.mu.Lock()
	w.lastRun = id
	w.mu.Unlock()
}

// watch opens a watcher on the artifact directory. A missing directory
// leaves the worker polling only.
func (w *Worker) watch() *fsnotify.Watcher {
	if w.watchDir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("file watcher unavailable, polling only", "error", err)
		return nil
	}
	if err := watcher.Add(w.watchDir); err != nil {
		w.logger.Warn("cannot watch artifact directory, polling only", "dir", w.watchDir, "error", err)
		watcher.Close()
		return nil
	}
	return watcher
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// nil channels block forever when nothing is watched
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w.watcher != nil {
		defer w.watcher.Close()
		events = w.watcher.Events
		errs = w.watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reload worker context cancelled")
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
				w.check(ctx)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Worker) check(ctx context.Context) {
	if _, err := w.Check(ctx); err != nil {
		w.logger.Warn("artifact reload failed", "error", err)
	}
}

// Check reloads the engine when the manifest names a run it has not loaded.
// It reports whether a reload happened. A failed reload is retried on the
// next check since the run is not recorded.
func (w *Worker) Check(ctx context.Context) (bool, error) {
	m, err := w.store.Manifest(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if m.RunID == w.LastRun() {
		return false, nil
	}

	start := time.Now()
	if err := w.engine.Reload(ctx); err != nil {
		return false, err
	}
	w.setLastRun(m.RunID)

	w.logger.Info("artifacts reloaded",
		"run_id", m.RunID,
		"movies", m.MovieCount,
		"duration", time.Since(start),
	)
	return true, nil
}

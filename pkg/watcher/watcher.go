package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/storage"
	"github.com/fsnotify/fsnotify"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Event
	errors chan error

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}
	targets  map[string]struct{}

	// Debouncing state.
	debounceTimers map[string]*time.Timer
	pending        map[string]Op
	debounceMu     sync.Mutex

	// Circuit breaker state.
	failureCount int
}

// New creates a new file watcher.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	// Set defaults.
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}
	if cfg.CircuitBreakerThreshold == 0 {
		cfg.CircuitBreakerThreshold = 5
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:            fsw,
		logger:         log.Component("watcher"),
		config:         cfg,
		events:         make(chan Event, 100),
		errors:         make(chan error, 10),
		stopChan:       make(chan struct{}),
		targets:        make(map[string]struct{}),
		debounceTimers: make(map[string]*time.Timer),
		pending:        make(map[string]Op),
	}

	w.logger.Debug("file watcher created",
		"debounce_interval", cfg.DebounceInterval,
		"circuit_breaker_threshold", cfg.CircuitBreakerThreshold)

	return w, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, files []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.running = true
	stop := make(chan struct{})
	w.stopChan = stop
	w.mu.Unlock()

	targets, dirs, err := w.resolve(files)
	if err != nil {
		w.setRunning(false)
		return err
	}

	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			w.setRunning(false)
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("added watch directory", "path", dir)
	}

	w.mu.Lock()
	w.targets = targets
	w.mu.Unlock()

	w.logger.Info("watcher started",
		"files", files,
		"directories", len(dirs))

	go w.processEvents(ctx, stop)
	return nil
}

// resolve maps files to absolute targets and their existing parent
// directories.
func (w *watcher) resolve(files []string) (map[string]struct{}, []string, error) {
	targets := make(map[string]struct{}, len(files))
	seen := make(map[string]bool)
	var dirs []string

	for _, file := range files {
		abs, err := filepath.Abs(storage.ExpandHome(file))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, file, err)
		}

		dir := filepath.Dir(abs)
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				w.logger.Warn("watch directory does not exist, skipping", "path", dir)
				continue
			}
			return nil, nil, fmt.Errorf("failed to stat path %s: %w", dir, err)
		}
		if !info.IsDir() {
			w.logger.Warn("watch parent is not a directory, skipping", "path", dir)
			continue
		}

		targets[abs] = struct{}{}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	if len(targets) == 0 {
		return nil, nil, ErrInvalidPath
	}
	return targets, dirs, nil
}

func (w *watcher) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	close(w.stopChan)
	w.running = false

	w.logger.Info("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Event {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.running {
		close(w.stopChan)
		w.running = false
	}

	// Cancel debounce timers.
	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = nil
	w.pending = nil
	w.debounceMu.Unlock()

	close(w.events)
	close(w.errors)

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Debug("watcher closed")
	return nil
}

// processEvents handles events from fsnotify.
func (w *watcher) processEvents(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("event processing stopped", "reason", "context cancelled")
			return
		case <-stop:
			w.logger.Debug("event processing stopped", "reason", "stop signal")
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.handleError(err) {
				return
			}
		}
	}
}

// handleEvent processes a single fsnotify event with debouncing.
func (w *watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mu.RLock()
	_, watched := w.targets[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OpCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OpWrite
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		op = OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OpRename
	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		if !w.config.NotifyChmod {
			return
		}
		op = OpChmod
	default:
		w.logger.Debug("unknown fsnotify operation",
			"op", event.Op,
			"path", event.Name)
		return
	}

	// A successful event resets the circuit breaker.
	w.mu.Lock()
	w.failureCount = 0
	w.mu.Unlock()

	w.debounceEvent(Event{
		Path:      path,
		Op:        op,
		Timestamp: time.Now(),
	})
}

// debounceEvent emits event once no newer event for the same path
// arrives within the debounce interval. The emitted Op is the union of
// the burst, so a create followed by writes still reports OpCreate.
func (w *watcher) debounceEvent(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimers == nil {
		return
	}
	if timer, exists := w.debounceTimers[event.Path]; exists {
		timer.Stop()
		event.Op |= w.pending[event.Path]
	}
	w.pending[event.Path] = event.Op

	w.debounceTimers[event.Path] = time.AfterFunc(w.config.DebounceInterval, func() {
		w.mu.RLock()
		if !w.closed {
			select {
			case w.events <- event:
			default:
				w.logger.Warn("event channel full, dropping event", "path", event.Path)
			}
		}
		w.mu.RUnlock()

		w.debounceMu.Lock()
		if w.debounceTimers != nil {
			delete(w.debounceTimers, event.Path)
			delete(w.pending, event.Path)
		}
		w.debounceMu.Unlock()
	})
}

// handleError reports an fsnotify error and returns true once the
// circuit breaker opens.
func (w *watcher) handleError(err error) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.failureCount++
	w.logger.Error("fsnotify error",
		"error", err,
		"failure_count", w.failureCount)

	report := err
	open := w.failureCount >= w.config.CircuitBreakerThreshold
	if open {
		w.logger.Error("circuit breaker opened",
			"threshold", w.config.CircuitBreakerThreshold)
		report = ErrCircuitBreakerOpen
	}

	if !w.closed {
		select {
		case w.errors <- report:
		default:
			w.logger.Warn("error channel full, dropping error")
		}
	}
	return open
}

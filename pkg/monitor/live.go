package monitor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/0xmhha/punchclock/pkg/aggregator"
	"github.com/0xmhha/punchclock/pkg/display"
	"github.com/0xmhha/punchclock/pkg/logger"
	"github.com/0xmhha/punchclock/pkg/session"
	"github.com/0xmhha/punchclock/pkg/watcher"
)

// liveMonitor implements the LiveMonitor interface.
type liveMonitor struct {
	config  Config
	logger  logger.Logger
	watcher watcher.Watcher
	load    Loader

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}

	snapshot Snapshot
	latest   Update

	// Update channel for consumers
	updates chan Update
}

// New creates a new live monitor.
func New(cfg Config, w watcher.Watcher, load Loader, log logger.Logger) (LiveMonitor, error) {
	if w == nil || load == nil {
		return nil, fmt.Errorf("%w: watcher and loader are required", ErrInvalidConfig)
	}
	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%w: no files to watch", ErrInvalidConfig)
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := &liveMonitor{
		config:  cfg,
		logger:  log.Component("monitor"),
		watcher: w,
		load:    load,
		updates: make(chan Update, 10),
	}

	m.logger.Debug("live monitor created",
		"refresh_interval", cfg.RefreshInterval,
		"files", cfg.Files)

	return m, nil
}

// Start implements LiveMonitor.Start.
func (m *liveMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	if m.running {
		m.mu.Unlock()
		return ErrMonitorRunning
	}
	m.running = true
	stop := make(chan struct{})
	m.stopChan = stop
	m.mu.Unlock()

	snap, err := m.load(ctx)
	if err != nil {
		m.setRunning(false)
		return fmt.Errorf("initial load failed: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMonitorClosed
	}
	m.snapshot = snap
	m.publishLocked(0, true)
	m.mu.Unlock()

	if err := m.watcher.Start(ctx, m.config.Files); err != nil {
		m.setRunning(false)
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	go m.processEvents(ctx, stop)
	go m.periodicUpdates(ctx, stop)

	m.logger.Info("live monitor started", "sessions", len(snap.Sessions))
	return nil
}

func (m *liveMonitor) setRunning(running bool) {
	m.mu.Lock()
	m.running = running
	m.mu.Unlock()
}

// Stop implements LiveMonitor.Stop.
func (m *liveMonitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMonitorClosed
	}
	if !m.running {
		return ErrMonitorNotRunning
	}

	close(m.stopChan)
	m.running = false

	if err := m.watcher.Stop(); err != nil {
		m.logger.Warn("failed to stop watcher", "error", err)
	}

	m.logger.Info("live monitor stopped")
	return nil
}

// Updates implements LiveMonitor.Updates.
func (m *liveMonitor) Updates() <-chan Update {
	return m.updates
}

// Latest implements LiveMonitor.Latest.
func (m *liveMonitor) Latest() Update {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// processEvents handles file change events from the watcher.
func (m *liveMonitor) processEvents(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-stop:
			return

		case event, ok := <-m.watcher.Events():
			if !ok {
				m.logger.Debug("watcher events channel closed")
				return
			}
			m.handleFileChange(ctx, event)

		case err, ok := <-m.watcher.Errors():
			if !ok {
				m.logger.Debug("watcher errors channel closed")
				return
			}
			m.logger.Error("watcher error", "error", err)
		}
	}
}

// handleFileChange reloads the snapshot after a change. A failed load
// keeps the previous snapshot.
func (m *liveMonitor) handleFileChange(ctx context.Context, event watcher.Event) {
	m.logger.Debug("file change detected",
		"path", event.Path,
		"op", event.Op)

	snap, err := m.load(ctx)
	if err != nil {
		m.logger.Warn("failed to reload after change",
			"path", event.Path,
			"error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	added := len(snap.Sessions) - len(m.snapshot.Sessions)
	if added < 0 {
		// History was cleared.
		added = 0
	}
	m.snapshot = snap
	m.publishLocked(added, true)
}

// periodicUpdates keeps the elapsed time moving between reloads.
func (m *liveMonitor) periodicUpdates(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-stop:
			return

		case <-ticker.C:
			m.mu.Lock()
			if !m.closed {
				m.publishLocked(0, false)
			}
			m.mu.Unlock()
		}
	}
}

// publishLocked builds an update from the current snapshot and sends it
// without blocking. Callers hold m.mu.
func (m *liveMonitor) publishLocked(added int, reloaded bool) {
	update := NewUpdate(m.snapshot, m.config.Now(), m.config.WeekStart)
	update.NewSessions = added
	update.Reloaded = reloaded
	m.latest = update

	select {
	case m.updates <- update:
	default:
		m.logger.Warn("updates channel full, dropping update")
	}
}

// NewUpdate derives the displayed state from snap at now.
func NewUpdate(snap Snapshot, now time.Time, ws aggregator.WeekStart) Update {
	week := display.NewWeekView(snap.Sessions, now, ws)
	today := slices.Collect(session.StartedOn(snap.Sessions, now))

	status := display.Status{
		Active: snap.Active,
		Week:   week.Summary.Total,
	}
	for _, s := range today {
		status.Today += s.Duration()
	}
	if snap.Active {
		status.Since = snap.Since
		status.Elapsed = now.Sub(snap.Since)
	}

	return Update{
		Timestamp: now,
		Week:      week,
		Today:     today,
		Status:    status,
	}
}

// Close implements LiveMonitor.Close.
func (m *liveMonitor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.running {
		close(m.stopChan)
		m.running = false
	}

	close(m.updates)

	m.logger.Debug("live monitor closed")
	return nil
}

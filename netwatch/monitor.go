// Package netwatch bridges the platform's connectivity signal into
// explicit online/offline callbacks and a synchronous Online query.
package netwatch

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Probe reports whether the network is currently reachable.
type Probe func(ctx context.Context) bool

// DialProbe returns a Probe that attempts a TCP dial to addr.
func DialProbe(addr string, timeout time.Duration) Probe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

type watcher struct {
	onOnline  func()
	onOffline func()
}

// Monitor tracks connectivity state and notifies registered watchers on
// transitions. Without a probe it cannot observe the network and reports
// online unconditionally.
type Monitor struct {
	probe    Probe
	interval time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	online   bool
	watchers map[int]watcher
	nextID   int
}

// NewMonitor creates a monitor. interval governs how often Run polls the
// probe; it defaults to 15 seconds.
func NewMonitor(probe Probe, interval time.Duration, logger zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
		online:   true,
		watchers: make(map[int]watcher),
	}
}

// Online reports the last observed connectivity state without probing.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Check runs the probe once, updates state, fires transition callbacks,
// and returns the fresh result.
func (m *Monitor) Check(ctx context.Context) bool {
	if m.probe == nil {
		return true
	}
	result := m.probe(ctx)
	m.setOnline(result)
	return result
}

// Watch registers an online/offline callback pair. Each call registers an
// independent pair; the returned cancel removes exactly that pair. Either
// callback may be nil.
func (m *Monitor) Watch(onOnline, onOffline func()) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = watcher{onOnline: onOnline, onOffline: onOffline}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}
}

// Run polls the probe until ctx is done. It is a no-op without a probe.
func (m *Monitor) Run(ctx context.Context) {
	if m.probe == nil {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// setOnline records the new state and fires watcher callbacks on a
// transition. Callbacks run outside the lock.
func (m *Monitor) setOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	callbacks := make([]func(), 0, len(m.watchers))
	for _, w := range m.watchers {
		cb := w.onOffline
		if online {
			cb = w.onOnline
		}
		if cb != nil {
			callbacks = append(callbacks, cb)
		}
	}
	m.mu.Unlock()

	m.logger.Info().Bool("online", online).Msg("connectivity changed")
	for _, cb := range callbacks {
		cb()
	}
}

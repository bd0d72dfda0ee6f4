// Package conn owns the lifecycle of the shared database connection across
// Lambda invocations: the warm-start fast path, coalescing of concurrent
// cold-start dials, and the one-time seeding that follows the first
// successful connection of a process lifetime.
package conn

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const defaultConnectTimeout = 10 * time.Second

type Config struct {
	// Connect establishes a fresh connection, discarding any stale handle.
	Connect func(ctx context.Context) error

	// Seed runs once after the first successful connection. Its errors are
	// logged and swallowed; a failed seed is never retried.
	Seed func(ctx context.Context) error

	// ConnectTimeout bounds a single dial attempt. Defaults to 10s.
	ConnectTimeout time.Duration

	// ReconnectInterval, when positive, redials on a timer after the
	// connection drops. Zero disables the timer, leaving reconnection to the
	// next request. Keep it disabled on Lambda, where a background ticker
	// can outlive useful work.
	ReconnectInterval time.Duration

	Logger zerolog.Logger
}

// Manager tracks whether the shared connection is live and whether seeding
// has run. All mutation goes through Ensure and SetReady.
type Manager struct {
	cfg   Config
	group singleflight.Group

	mu           sync.Mutex
	ready        bool
	seeded       bool
	reconnecting bool
}

func NewManager(cfg Config) *Manager {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	return &Manager{cfg: cfg}
}

// Ensure returns immediately when the connection is live. Otherwise it joins
// the single in-flight dial attempt, starting one if none is pending. The
// attempt runs on a background context with its own timeout: it is shared
// process state, so an aborted request must not cancel it.
func (m *Manager) Ensure(ctx context.Context) error {
	if m.Ready() {
		return nil
	}
	_, err, _ := m.group.Do("connect", func() (interface{}, error) {
		return nil, m.establish()
	})
	return err
}

func (m *Manager) establish() error {
	// Another caller may have completed the dial while we queued.
	if m.Ready() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()

	if err := m.cfg.Connect(ctx); err != nil {
		m.SetReady(false)
		return &ConnectionError{Cause: err}
	}
	m.SetReady(true)
	m.seedOnce(ctx)
	return nil
}

func (m *Manager) seedOnce(ctx context.Context) {
	m.mu.Lock()
	if m.seeded {
		m.mu.Unlock()
		return
	}
	m.seeded = true
	m.mu.Unlock()

	if m.cfg.Seed == nil {
		return
	}
	if err := m.cfg.Seed(ctx); err != nil {
		// Seeding never blocks requests; partial seeding is accepted.
		m.cfg.Logger.Error().Err(&SeedError{Cause: err}).Msg("seeding failed")
		return
	}
	m.cfg.Logger.Info().Msg("seeded default records")
}

// SetReady records the connection state reported by the client's heartbeat
// monitor, so later Ensure calls make the right fast/slow-path decision.
func (m *Manager) SetReady(ready bool) {
	m.mu.Lock()
	changed := m.ready != ready
	m.ready = ready
	start := !ready && m.cfg.ReconnectInterval > 0 && !m.reconnecting
	if start {
		m.reconnecting = true
	}
	m.mu.Unlock()

	if changed {
		m.cfg.Logger.Info().Bool("ready", ready).Msg("connection state changed")
	}
	if start {
		go m.reconnectLoop()
	}
}

func (m *Manager) reconnectLoop() {
	ticker := time.NewTicker(m.cfg.ReconnectInterval)
	defer ticker.Stop()

	for range ticker.C {
		if m.Ready() {
			break
		}
		if err := m.Ensure(context.Background()); err != nil {
			m.cfg.Logger.Warn().Err(err).Msg("reconnect attempt failed")
			continue
		}
		break
	}

	m.mu.Lock()
	m.reconnecting = false
	again := !m.ready && m.cfg.ReconnectInterval > 0
	if again {
		m.reconnecting = true
	}
	m.mu.Unlock()

	if again {
		go m.reconnectLoop()
	}
}

func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *Manager) Seeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seeded
}

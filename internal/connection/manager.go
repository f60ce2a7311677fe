// Package connection owns the process-wide store handle.
//
// A Manager dials the store the first time a request needs it and hands the
// same handle to every later caller. Concurrent first calls share a single
// dial.
package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rollcall/rollcall/internal/metrics"
	"github.com/rollcall/rollcall/internal/redact"
	"github.com/rollcall/rollcall/internal/repository"
)

// DefaultDialTimeout bounds a single connection attempt.
const DefaultDialTimeout = 10 * time.Second

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("connection manager is closed")

// DialFunc opens a store for the given connection string.
type DialFunc func(ctx context.Context, url string) (repository.Store, error)

// State is the lifecycle state of a Manager.
type State int32

const (
	Uninitialized State = iota
	Connecting
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Manager lazily establishes and then reuses one store handle.
type Manager struct {
	url      string
	dial     DialFunc
	timeout  time.Duration
	logger   *slog.Logger
	recorder metrics.Recorder

	group singleflight.Group
	dials atomic.Int64

	mu    sync.RWMutex
	state State
	store repository.Store
}

// Option configures a Manager.
type Option func(*Manager)

// WithDialer replaces repository.Open as the dial function.
func WithDialer(dial DialFunc) Option {
	return func(m *Manager) { m.dial = dial }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(m *Manager) { m.recorder = recorder }
}

// WithDialTimeout bounds each connection attempt. Non-positive values keep
// the default.
func WithDialTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// New creates a Manager for url. No connection is made until Acquire.
func New(url string, opts ...Option) *Manager {
	m := &Manager{
		url:      url,
		dial:     repository.Open,
		timeout:  DefaultDialTimeout,
		logger:   slog.Default(),
		recorder: metrics.NewNoop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "connection.manager")
	return m
}

// Acquire returns the shared store, dialling it on first use.
//
// Callers that arrive while a dial is in flight wait for that dial instead
// of starting their own. The dial itself is not bound to ctx, so a caller
// that gives up does not fail the others; it only stops waiting.
// Failed dials are not cached: the next Acquire tries again.
func (m *Manager) Acquire(ctx context.Context) (repository.Store, error) {
	m.mu.RLock()
	state, store := m.state, m.store
	m.mu.RUnlock()

	switch state {
	case Ready:
		return store, nil
	case Closed:
		return nil, &repository.ConnectionError{Op: "acquire", Err: ErrClosed}
	}

	if m.url == "" {
		return nil, &repository.ConnectionError{Op: "acquire", Err: repository.ErrNotConfigured}
	}

	ch := m.group.DoChan("connect", m.connect)
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(repository.Store), nil
	case <-ctx.Done():
		return nil, &repository.ConnectionError{Op: "acquire", Err: ctx.Err()}
	}
}

// connect runs inside the single-flight group.
func (m *Manager) connect() (any, error) {
	m.mu.Lock()
	switch m.state {
	case Ready:
		// Another flight finished between our state check and DoChan.
		store := m.store
		m.mu.Unlock()
		return store, nil
	case Closed:
		m.mu.Unlock()
		return nil, &repository.ConnectionError{Op: "connect", Err: ErrClosed}
	}
	m.state = Connecting
	m.mu.Unlock()

	attempt := m.dials.Add(1)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	store, err := m.dial(ctx, m.url)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if m.state == Connecting {
			m.state = Uninitialized
		}
		if !repository.IsConnection(err) {
			err = &repository.ConnectionError{Op: "connect", Err: err}
		}
		m.recorder.IncConnectionFailed()
		m.logger.Error("connection_failed",
			slog.Int64("attempt", attempt),
			slog.String("database_url", redact.URL(m.url)),
			slog.String("error", redact.Error(err, m.url)),
		)
		return nil, err
	}

	if m.state == Closed {
		_ = store.Close(ctx)
		return nil, &repository.ConnectionError{Op: "connect", Err: ErrClosed}
	}

	m.store = store
	m.state = Ready
	m.recorder.IncConnectionEstablished()
	m.logger.Info("connection_established",
		slog.Int64("attempt", attempt),
		slog.String("database_url", redact.URL(m.url)),
		slog.Duration("duration", time.Since(start)),
	)
	return store, nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Dials returns how many connection attempts have been made.
func (m *Manager) Dials() int64 {
	return m.dials.Load()
}

// Ping acquires the store and checks it is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	store, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := store.Ping(ctx); err != nil {
		return &repository.ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

// Close releases the store. Later Acquire calls fail.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	m.state = Closed
	if prev != Ready {
		return nil
	}

	store := m.store
	m.store = nil
	return store.Close(ctx)
}

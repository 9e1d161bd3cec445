// Package browser owns the lifecycle of headless rendering sessions used by
// adapters that need JS-rendered pages. Sessions live in a small bounded pool
// and are recycled on a fixed cadence so no single browser fingerprint
// accumulates an entire run's worth of traffic.
package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// ErrNavigationTimeout marks a page that never settled before the navigation
// bound. Callers treat it as "no result", never as a run failure.
var ErrNavigationTimeout = errors.New("browser: navigation timed out")

type Options struct {
	ChromePath        string
	PoolSize          int
	RestartEvery      int // facilities between proactive session restarts
	NavigationTimeout time.Duration
	DelayBase         time.Duration
	DelayJitter       time.Duration
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.PoolSize < 1 {
		out.PoolSize = 1
	}
	if out.RestartEvery < 1 {
		out.RestartEvery = 10
	}
	if out.NavigationTimeout <= 0 {
		out.NavigationTimeout = 45 * time.Second
	}
	return out
}

// Session is one live browser tab context. gen records the recycle generation
// the session was created under; sessions from an older generation are
// replaced the next time they are checked out.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	manager *Manager
	gen     uint64
}

// Manager maintains the allocator and the session pool. Recycling is lazy:
// reaching the cadence only bumps the generation counter, and stale sessions
// are swapped for fresh ones as they pass through Acquire. Nothing ever waits
// on the pool channel while holding the mutex, so checked-out sessions can
// always be released.
type Manager struct {
	opts   Options
	logger *logrus.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc

	newSession func() (*Session, error)

	mu       sync.Mutex
	pool     chan *Session
	visits   int
	gen      uint64
	started  bool
	stopping bool
}

func NewManager(opts Options, logger *logrus.Logger) *Manager {
	m := &Manager{opts: opts.withDefaults(), logger: logger}
	m.newSession = m.chromeSession
	return m
}

// Start boots the underlying browser process. A browser that cannot start is
// fatal to the run.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("browser manager already started")
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if m.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(m.opts.ChromePath))
	}
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)

	m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)

	m.pool = make(chan *Session, m.opts.PoolSize)
	for i := 0; i < m.opts.PoolSize; i++ {
		s, err := m.newSession()
		if err != nil {
			m.allocCancel()
			return fmt.Errorf("starting browser: %w", err)
		}
		m.pool <- s
	}

	m.started = true
	m.logger.WithField("pool_size", m.opts.PoolSize).Info("Browser session pool started")
	return nil
}

func (m *Manager) chromeSession() (*Session, error) {
	sessCtx, cancel := chromedp.NewContext(m.allocCtx)
	if err := chromedp.Run(sessCtx); err != nil {
		cancel()
		return nil, err
	}
	return &Session{ctx: sessCtx, cancel: cancel, manager: m}, nil
}

// Acquire checks a session out of the pool, blocking until one is free or the
// context is cancelled. Callers must Release on every exit path. A session
// left over from before the last recycle point is replaced with a fresh one
// before being handed out.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s := <-m.pool:
		return m.recycleIfStale(s), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// recycleIfStale swaps a session from an older generation for a fresh one.
// The old session is cancelled only once its replacement exists; when the
// browser cannot produce a replacement the live session keeps serving and the
// swap is retried on its next checkout.
func (m *Manager) recycleIfStale(s *Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.gen == m.gen || m.stopping {
		return s
	}
	fresh, err := m.newSession()
	if err != nil {
		m.logger.WithError(err).Error("Failed to recycle browser session")
		return s
	}
	fresh.gen = m.gen
	s.cancel()
	m.logger.Debug("Recycled browser session")
	return fresh
}

// Release returns a session to the pool.
func (m *Manager) Release(s *Session) {
	m.mu.Lock()
	stopping := m.stopping
	m.mu.Unlock()
	if stopping {
		s.cancel()
		return
	}
	m.pool <- s
}

// NoteFacility records that one facility has been processed and, when the
// restart cadence is reached, marks every current session for recycling.
// Never blocks, even while sessions are checked out.
func (m *Manager) NoteFacility() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started || m.stopping {
		return
	}
	m.visits++
	if m.visits < m.opts.RestartEvery {
		return
	}
	m.visits = 0
	m.gen++
	m.logger.Debug("Marked browser sessions for recycling")
}

// Stop tears the pool and browser process down. Safe to call once after
// Start succeeded; lets in-flight sessions close cleanly.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started || m.stopping {
		m.mu.Unlock()
		return
	}
	m.stopping = true
	m.mu.Unlock()

	for i := 0; i < m.opts.PoolSize; i++ {
		select {
		case s := <-m.pool:
			s.cancel()
		case <-time.After(5 * time.Second):
		}
	}
	m.allocCancel()
	m.logger.Info("Browser session pool stopped")
}

// Delay sleeps the configured inter-request delay plus a random jitter
// component, or returns early on cancellation.
func (m *Manager) Delay(ctx context.Context) {
	d := m.opts.DelayBase
	if m.opts.DelayJitter > 0 {
		d += time.Duration(rand.Int63n(int64(m.opts.DelayJitter)))
	}
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Package pps emulates a pulse-per-second timing source: a shared event
// counter advanced once per tick, and a blocking wait primitive that any
// number of consumers can use independently.
package pps

import (
	"context"
	"sync"
	"time"
)

// Config holds the PPS source settings.
type Config struct {
	TickInterval time.Duration `yaml:"tick_interval"` // pulse cadence
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{TickInterval: 1 * time.Second}
}

// Source is the shared pulse counter. The counter strictly increases, one
// step per tick, and is never reset while running. It is 32 bits wide like
// the hardware register it stands in for; wrapping after 2^32 pulses
// (~136 years at 1 Hz) is a known edge, not a defect.
type Source struct {
	mu    sync.Mutex
	count uint32
	pulse chan struct{} // closed and replaced on every tick to wake all waiters

	// Control fields
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	ticker  *time.Ticker
}

// NewSource creates a stopped source with the counter at zero.
func NewSource() *Source {
	return &Source{pulse: make(chan struct{})}
}

// Tick registers one pulse: the counter advances and every blocked waiter
// wakes. Safe to call directly when an external scheduler owns the cadence.
func (s *Source) Tick() {
	s.mu.Lock()
	s.count++
	close(s.pulse)
	s.pulse = make(chan struct{})
	s.mu.Unlock()
}

// Count returns the current event counter value.
func (s *Source) Count() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Start begins pulsing at the given interval. A non-positive interval
// falls back to one second.
func (s *Source) Start(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSourceAlreadyRunning
	}
	if interval <= 0 {
		interval = 1 * time.Second
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.ticker = time.NewTicker(interval)
	s.running = true

	go s.run()
	return nil
}

// Stop halts the pulse loop. The counter keeps its value and attached
// cursors stay valid; they simply see no further events.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrSourceNotRunning
	}

	s.cancel()
	s.ticker.Stop()
	s.running = false
	return nil
}

// IsRunning returns whether the pulse loop is active.
func (s *Source) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the pulse loop.
func (s *Source) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.ticker.C:
			s.Tick()
		}
	}
}

// Attach creates an independent consumer cursor. The cursor starts at the
// current count, so its first Wait blocks until the next pulse rather than
// returning a stale event.
func (s *Source) Attach() *Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Cursor{src: s, lastSeen: s.count}
}

// Cursor is one consumer's view of the counter. Each cursor progresses
// independently: a pulse wakes every waiting cursor and each observes the
// same new event id. A cursor is owned by a single consumer session and
// must not be shared.
type Cursor struct {
	src      *Source
	lastSeen uint32
	detached bool
}

// Wait blocks until the counter advances past the cursor's last observed
// value, then records and returns the new event id. Cancelling ctx unblocks
// only this wait and reports ErrWaitInterrupted; no event is consumed or
// fabricated. Waiting on a detached cursor reports ErrCursorDetached.
func (c *Cursor) Wait(ctx context.Context) (uint32, error) {
	for {
		c.src.mu.Lock()
		if c.detached {
			c.src.mu.Unlock()
			return 0, ErrCursorDetached
		}
		if c.src.count > c.lastSeen {
			id := c.src.count
			c.lastSeen = id
			c.src.mu.Unlock()
			return id, nil
		}
		pulse := c.src.pulse
		c.src.mu.Unlock()

		select {
		case <-pulse:
		case <-ctx.Done():
			return 0, ErrWaitInterrupted
		}
	}
}

// Detach releases the cursor. Subsequent waits report ErrCursorDetached; a
// wait already blocked notices at its next wakeup. Other cursors are
// unaffected.
func (c *Cursor) Detach() {
	c.src.mu.Lock()
	c.detached = true
	c.src.mu.Unlock()
}

// Package gnss emulates a GNSS receiver: a ticking clock/coordinate model,
// an NMEA-0183 sentence encoder with parameterized fault injection, and a
// single-reader output channel standing in for the serial line.
package gnss

import (
	"context"
	"sync"
	"time"
)

// Simulator ties the clock/coordinate model, the sentence encoder and the
// output channel together and drives them from a periodic tick.
type Simulator struct {
	mu         sync.Mutex
	startLat   int // signed micro-degrees
	startLon   int
	errorRate  int
	signalLoss bool
	clock      simClock
	lat        coordinate
	lon        coordinate

	channel      *Channel
	bufSize      int
	tickInterval time.Duration

	// Control fields
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	ticker  *time.Ticker
}

// NewSimulator creates a simulator from the given configuration.
// Out-of-range numeric values are clamped; only a malformed start time is
// an error.
func NewSimulator(config Config) (*Simulator, error) {
	config.Clamp()

	clock, err := parseTimeOfDay(config.StartTime)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		startLat:     config.StartLat,
		startLon:     config.StartLon,
		errorRate:    config.ErrorRate,
		signalLoss:   config.SignalLoss,
		clock:        clock,
		lat:          deriveCoordinate(config.StartLat),
		lon:          deriveCoordinate(config.StartLon),
		channel:      NewChannel(),
		bufSize:      config.BufferSize,
		tickInterval: config.TickInterval,
	}
	return s, nil
}

// Channel returns the simulator's output channel.
func (s *Simulator) Channel() *Channel {
	return s.channel
}

// Attach claims the simulated serial line and returns its read side.
func (s *Simulator) Attach() (*Port, error) {
	return s.channel.Attach(s.bufSize)
}

// SetErrorRate updates the checksum corruption rate at runtime. The value
// is clamped to 0-100 and read fresh on every sentence render.
func (s *Simulator) SetErrorRate(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	s.mu.Lock()
	s.errorRate = pct
	s.mu.Unlock()
}

// SetSignalLoss toggles signal-loss simulation at runtime.
func (s *Simulator) SetSignalLoss(lost bool) {
	s.mu.Lock()
	s.signalLoss = lost
	s.mu.Unlock()
}

// SetStartPosition updates the configured coordinates at runtime, in signed
// micro-degrees. The position is re-derived from these values on every
// tick, so the change is visible in the next sentences emitted.
func (s *Simulator) SetStartPosition(latMicroDeg, lonMicroDeg int) {
	s.mu.Lock()
	s.startLat = latMicroDeg
	s.startLon = lonMicroDeg
	s.mu.Unlock()
}

// Start begins ticking at the configured interval.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrSimulatorAlreadyRunning
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.ticker = time.NewTicker(s.tickInterval)
	s.running = true

	go s.run()
	return nil
}

// Stop halts the ticking loop. The output channel and any attached reader
// are left untouched.
func (s *Simulator) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrSimulatorNotRunning
	}

	s.cancel()
	s.ticker.Stop()
	s.running = false
	return nil
}

// IsRunning returns whether the ticking loop is active.
func (s *Simulator) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the ticking loop.
func (s *Simulator) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.ticker.C:
			s.Tick()
		}
	}
}

// Tick advances the simulation by one second and delivers the resulting
// sentences to the attached reader, best effort. A sentence that does not
// fit the receive buffer, or arrives while nothing is attached, is dropped;
// ticking never stalls on a slow or absent consumer. Exported so tests and
// alternative schedulers can drive the cadence themselves.
func (s *Simulator) Tick() {
	s.mu.Lock()
	s.advance()
	sentences := s.renderSentences()
	s.mu.Unlock()

	for _, sentence := range sentences {
		s.channel.Deliver([]byte(sentence))
	}
}

// Render produces the sentences for the current state without advancing it.
// Two renders without an intervening tick are not byte-identical: the SNR
// jitter and the corruption draws are fresh on every call.
func (s *Simulator) Render() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderSentences()
}

// advance moves the clock one second forward and refreshes the position.
// The position is re-derived from the configured start coordinates each
// tick, so runtime writes to them take effect immediately and jitter never
// accumulates across ticks. Caller must hold s.mu.
func (s *Simulator) advance() {
	s.clock.tick()

	s.lat = deriveCoordinate(s.startLat)
	s.lon = deriveCoordinate(s.startLon)
	s.lat.jitter()
	s.lon.jitter()
}

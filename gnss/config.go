package gnss

import "time"

// Config holds all configuration options for the GNSS simulator
type Config struct {
	StartLat     int           `yaml:"start_lat"`     // starting latitude in signed micro-degrees
	StartLon     int           `yaml:"start_lon"`     // starting longitude in signed micro-degrees
	ErrorRate    int           `yaml:"error_rate"`    // percent of sentences emitted with a corrupted checksum (0-100)
	SignalLoss   bool          `yaml:"signal_loss"`   // emit no-fix sentences
	TickInterval time.Duration `yaml:"tick_interval"` // cadence of the simulation tick
	StartTime    string        `yaml:"start_time"`    // simulated time of day at startup, HH:MM:SS
	BufferSize   int           `yaml:"buffer_size"`   // receive buffer capacity of the attached reader, in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		StartLat:     -35315075, // 35 deg 18.9045 min S
		StartLon:     149129404, // 149 deg 07.7642 min E
		ErrorRate:    0,
		SignalLoss:   false,
		TickInterval: 1 * time.Second,
		StartTime:    "12:35:19",
		BufferSize:   4096,
	}
}

// Clamp normalizes out-of-range values in place. Bad values are clamped,
// never rejected, so a sloppy writer to the configuration surface cannot
// stop the simulation.
func (c *Config) Clamp() {
	if c.ErrorRate < 0 {
		c.ErrorRate = 0
	}
	if c.ErrorRate > 100 {
		c.ErrorRate = 100
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 1 * time.Second
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 4096
	}
}

// Package config loads the daemon's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"legs-sim/gnss"
	"legs-sim/pps"
)

// Config is the full daemon configuration: one section per engine plus the
// output wiring.
type Config struct {
	GNSS   gnss.Config  `yaml:"gnss"`
	PPS    pps.Config   `yaml:"pps"`
	Output OutputConfig `yaml:"output"`
}

// OutputConfig selects where the two byte streams go.
type OutputConfig struct {
	SerialPort string `yaml:"serial_port"` // NMEA sink; stdout when empty
	BaudRate   int    `yaml:"baud_rate"`
	PPSPath    string `yaml:"pps_path"` // PPS event-line sink; stderr when empty
	Quiet      bool   `yaml:"quiet"`    // suppress informational messages
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		GNSS:   gnss.DefaultConfig(),
		PPS:    pps.DefaultConfig(),
		Output: OutputConfig{BaudRate: 9600},
	}
}

// Load reads and parses a YAML configuration file. Missing fields keep
// their defaults; out-of-range values are clamped rather than rejected.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.GNSS.Clamp()
	if cfg.PPS.TickInterval <= 0 {
		cfg.PPS.TickInterval = pps.DefaultConfig().TickInterval
	}
	if cfg.Output.BaudRate <= 0 {
		cfg.Output.BaudRate = 9600
	}

	return cfg, nil
}

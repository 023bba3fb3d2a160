// Command legs-sim emulates the two navigation/timing peripherals the
// legs-main consumer expects: a GNSS receiver streaming NMEA-0183 sentences
// and a pulse-per-second event source.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.bug.st/serial"

	"legs-sim/config"
	"legs-sim/gnss"
	"legs-sim/pps"
)

// Version information - populated at build time via ldflags
var (
	Version   = "dev"     // Will be set to git tag if available, otherwise "dev"
	Commit    = "unknown" // Will be set to git commit hash
	BuildDate = "unknown" // Will be set to build timestamp
)

func main() {
	cfg := config.Default()
	var configPath string
	var showVersion bool

	// Define command line flags
	flag.BoolVar(&showVersion, "version", false, "Show version information and exit")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file (overrides all other flags, re-read on SIGHUP)")
	flag.IntVar(&cfg.GNSS.StartLat, "start-lat", cfg.GNSS.StartLat, "Starting latitude in signed micro-degrees")
	flag.IntVar(&cfg.GNSS.StartLon, "start-lon", cfg.GNSS.StartLon, "Starting longitude in signed micro-degrees")
	flag.IntVar(&cfg.GNSS.ErrorRate, "error-rate", cfg.GNSS.ErrorRate, "Percent of sentences emitted with a corrupted checksum (0-100)")
	flag.BoolVar(&cfg.GNSS.SignalLoss, "signal-loss", cfg.GNSS.SignalLoss, "Simulate signal loss (no-fix sentences)")
	flag.DurationVar(&cfg.GNSS.TickInterval, "rate", cfg.GNSS.TickInterval, "NMEA output interval")
	flag.StringVar(&cfg.GNSS.StartTime, "start-time", cfg.GNSS.StartTime, "Simulated time of day at startup (HH:MM:SS)")
	flag.DurationVar(&cfg.PPS.TickInterval, "pps-rate", cfg.PPS.TickInterval, "PPS pulse interval")
	flag.StringVar(&cfg.Output.SerialPort, "serial", cfg.Output.SerialPort, "Serial port for NMEA output (e.g., /dev/ttyUSB0); stdout if empty")
	flag.IntVar(&cfg.Output.BaudRate, "baud", cfg.Output.BaudRate, "Serial port baud rate")
	flag.StringVar(&cfg.Output.PPSPath, "pps-out", cfg.Output.PPSPath, "File to append PPS event lines to; stderr if empty")
	flag.BoolVar(&cfg.Output.Quiet, "quiet", cfg.Output.Quiet, "Suppress info messages (only output simulated data)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nGNSS/PPS Peripheral Simulator\n")
		fmt.Fprintf(os.Stderr, "Emulates a GNSS receiver (NMEA0183) and a PPS event source for consumer testing.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	// Handle version flag
	if showVersion {
		if Version != "dev" {
			fmt.Printf("v%s\n", Version)
		} else {
			fmt.Printf("%s\n", Commit)
		}
		os.Exit(0)
	}

	// A config file is the single source of truth when given; it is also
	// what SIGHUP re-reads for live reconfiguration.
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = loaded
	}

	if err := run(cfg, configPath); err != nil {
		log.Fatalf("legs-sim: %v", err)
	}
}

func run(cfg config.Config, configPath string) error {
	simulator, err := gnss.NewSimulator(cfg.GNSS)
	if err != nil {
		return fmt.Errorf("create gnss simulator: %w", err)
	}
	source := pps.NewSource()

	// Setup NMEA sink (serial port or stdout)
	var nmeaWriter io.Writer = os.Stdout
	if cfg.Output.SerialPort != "" {
		mode := &serial.Mode{
			BaudRate: cfg.Output.BaudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(cfg.Output.SerialPort, mode)
		if err != nil {
			return fmt.Errorf("open serial port %s: %w", cfg.Output.SerialPort, err)
		}
		defer port.Close()
		nmeaWriter = port

		if !cfg.Output.Quiet {
			fmt.Fprintf(os.Stderr, "Opened serial port: %s at %d baud\n", cfg.Output.SerialPort, cfg.Output.BaudRate)
		}
	}

	// Setup PPS sink (file or stderr)
	var ppsWriter io.Writer = os.Stderr
	if cfg.Output.PPSPath != "" {
		f, err := os.OpenFile(cfg.Output.PPSPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open pps output %s: %w", cfg.Output.PPSPath, err)
		}
		defer f.Close()
		ppsWriter = f
	}

	if !cfg.Output.Quiet {
		fmt.Fprintf(os.Stderr, "Starting GNSS/PPS simulator...\n")
		fmt.Fprintf(os.Stderr, "Start position: %d, %d (micro-degrees)\n", cfg.GNSS.StartLat, cfg.GNSS.StartLon)
		fmt.Fprintf(os.Stderr, "Start time: %s\n", cfg.GNSS.StartTime)
		fmt.Fprintf(os.Stderr, "Error rate: %d%%, signal loss: %v\n", cfg.GNSS.ErrorRate, cfg.GNSS.SignalLoss)
		fmt.Fprintf(os.Stderr, "NMEA interval: %v, PPS interval: %v\n", cfg.GNSS.TickInterval, cfg.PPS.TickInterval)
		fmt.Fprintf(os.Stderr, "\nPress Ctrl+C to stop\n\n")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Attach to the simulated serial line and pump it to the sink.
	nmeaPort, err := simulator.Attach()
	if err != nil {
		return fmt.Errorf("attach nmea reader: %w", err)
	}
	defer nmeaPort.Close()
	go func() {
		if _, err := io.Copy(nmeaWriter, nmeaPort); err != nil {
			log.Printf("nmea output stopped: %v", err)
			cancel()
		}
	}()

	// Attach a PPS cursor and pump event lines to the sink.
	cursor := source.Attach()
	defer cursor.Detach()
	go func() {
		_, err := io.Copy(ppsWriter, pps.NewEventReader(ctx, cursor))
		if err != nil && err != pps.ErrWaitInterrupted {
			log.Printf("pps output stopped: %v", err)
			cancel()
		}
	}()

	if err := simulator.Start(); err != nil {
		return fmt.Errorf("start gnss simulator: %w", err)
	}
	defer simulator.Stop()

	if err := source.Start(cfg.PPS.TickInterval); err != nil {
		return fmt.Errorf("start pps source: %w", err)
	}
	defer source.Stop()

	// SIGHUP re-reads the config file and applies the runtime-settable
	// parameters without restarting the engines.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			if configPath == "" {
				log.Printf("sighup ignored: no config file to reload")
				continue
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				log.Printf("config reload failed: %v", err)
				continue
			}
			applyRuntime(simulator, loaded.GNSS)
			log.Printf("config reloaded: start=(%d,%d) error_rate=%d%% signal_loss=%v",
				loaded.GNSS.StartLat, loaded.GNSS.StartLon, loaded.GNSS.ErrorRate, loaded.GNSS.SignalLoss)
		}
	}
}

// applyRuntime pushes the runtime-settable GNSS parameters into a running
// simulator. Tick intervals and output wiring need a restart and are left
// alone.
func applyRuntime(simulator *gnss.Simulator, cfg gnss.Config) {
	simulator.SetStartPosition(cfg.StartLat, cfg.StartLon)
	simulator.SetErrorRate(cfg.ErrorRate)
	simulator.SetSignalLoss(cfg.SignalLoss)
}

package gnss

import "errors"

// Common errors returned by the GNSS simulator
var (
	ErrInvalidStartTime        = errors.New("start time must be HH:MM:SS")
	ErrReaderAttached          = errors.New("a reader is already attached to the output channel")
	ErrSimulatorNotRunning     = errors.New("simulator is not running")
	ErrSimulatorAlreadyRunning = errors.New("simulator is already running")
)

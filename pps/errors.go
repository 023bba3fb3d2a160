package pps

import "errors"

// Common errors returned by the PPS source
var (
	ErrWaitInterrupted      = errors.New("wait interrupted before the next pulse")
	ErrCursorDetached       = errors.New("cursor is detached")
	ErrSourceAlreadyRunning = errors.New("pps source is already running")
	ErrSourceNotRunning     = errors.New("pps source is not running")
)

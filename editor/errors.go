package editor

import "errors"

var (
	ErrUnknownOption  = errors.New("editor: unknown option")
	ErrInvalidOption  = errors.New("editor: invalid option value")
	ErrUnknownCommand = errors.New("editor: unknown command")
	ErrReadOnly       = errors.New("editor: read-only")
	ErrDestroyed      = errors.New("editor: destroyed")
	// ErrExecutorStopped is returned by executors that can no longer run
	// units.
	ErrExecutorStopped = errors.New("editor: executor stopped")
)

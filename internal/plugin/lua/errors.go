package lua

import "errors"

var (
	// ErrStateClosed is returned by calls on a closed State.
	ErrStateClosed = errors.New("lua: state closed")

	// ErrExecutionTimeout wraps errors of scripts stopped by the timeout.
	ErrExecutionTimeout = errors.New("lua: execution timed out")

	// ErrModuleExists is returned when a module name is registered twice.
	ErrModuleExists = errors.New("lua: module already registered")
)

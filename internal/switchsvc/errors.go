package switchsvc

import "errors"

// Domain errors for the switchsvc package.
var (
	// ErrNoOutput is returned when a switch slot has no output channel.
	ErrNoOutput = errors.New("switchsvc: no output")

	// ErrNoInput is returned when a stateless switch has no input to observe.
	ErrNoInput = errors.New("switchsvc: no input")
)

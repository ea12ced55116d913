package hap

import "errors"

// Sentinel errors for engine operations.
var (
	// ErrNotIdle is returned when starting an engine that is not idle.
	ErrNotIdle = errors.New("hap: engine not idle")
)

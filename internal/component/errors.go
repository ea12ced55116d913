package component

import "errors"

// Domain errors for the component package.
var (
	// ErrNotFound is returned when a component id does not exist.
	// Absence of optional peripherals (temperature sensor) is reported
	// with this error and is not a fault.
	ErrNotFound = errors.New("component: not found")

	// ErrRegistryFrozen is returned when adding to a frozen registry.
	ErrRegistryFrozen = errors.New("component: registry frozen")
)

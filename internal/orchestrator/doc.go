// Package orchestrator is the device brain of Relay Core.
//
// It glues the fixed peripherals, the exported switch services and the
// accessory-protocol engine together and owns everything that is "the
// device" rather than any single component: the service lifecycle with its
// gating flags, lazy accessory construction and idle-gated teardown, the
// status LED state machine, the overheat interlock, the user button logic
// including the wifi reset sequence, configuration migrations and the 1 Hz
// housekeeping tick with its periodic status line.
//
// All event entry points are serialised on one mutex, so the device logic
// can assume a single-event-at-a-time world.
package orchestrator

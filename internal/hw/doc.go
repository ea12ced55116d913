// Package hw defines the platform capability contracts the orchestrator
// consumes: GPIO pin control, network status and provisioning, one-shot
// scheduling, and system resource introspection.
//
// Simulated implementations (SimGPIO, SimNetwork) back the simulator
// daemon and the test suite; firmware builds supply real drivers behind
// the same interfaces.
package hw

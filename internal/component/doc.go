// Package component defines the device capability model for Relay Core.
//
// A Component is any registered device capability with a stable identifier:
// inputs, outputs, power meters, the system temperature sensor, and the
// exported switch services built on top of them. The Registry owns all
// components; it is populated once at boot, frozen, and rebuilt only
// through a full service restart.
//
// Simulated implementations (SimInput, SimPowerMeter, SimTempSensor) back
// the simulator daemon and tests; PinOutput drives a real or simulated
// GPIO pin.
package component

// Package influxdb provides optional telemetry recording for Relay Core.
//
// The housekeeping tick writes system temperature, per-switch power draw
// and switch state changes as time-series points. Writes are batched and
// non-blocking; the device does not depend on the server being reachable.
package influxdb

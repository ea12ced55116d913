package mqtt

import "errors"

// Sentinel errors for MQTT operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, mqtt.ErrNotConnected) {
//	    // degraded: keep running without the status sink
//	}
var (
	// ErrNotConnected indicates the client is not connected to the broker.
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed indicates a publish operation failed or timed out.
	ErrPublishFailed = errors.New("mqtt: publish failed")
)

// Package mqtt provides the optional MQTT status sink for Relay Core.
//
// The orchestrator forwards its periodic aggregated status line and switch
// state changes to the broker. The sink is strictly best-effort: the device
// stays fully functional with no broker configured or reachable.
package mqtt

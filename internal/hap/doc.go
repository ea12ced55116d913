// Package hap defines the accessory-protocol engine contract and the
// accessory topology types for Relay Core.
//
// The engine itself (transport, sessions, pairing cryptography, service
// descriptors) is an external collaborator consumed through the Engine
// interface. This package also provides SimEngine, a transport-less
// lifecycle model used by the simulator daemon and the test suite.
package hap

// Package kvstore provides a small persistent key-value store over SQLite.
//
// It holds accessory-protocol state that must survive reboots, most
// importantly the configuration number that controllers use to detect
// accessory topology changes.
package kvstore

// Package database provides the SQLite connection for Relay Core.
//
// The database holds the persistent key-value store (see internal/kvstore)
// used for accessory-protocol state such as the configuration number.
// It replaces the flat-file key-value store of earlier firmware revisions.
package database

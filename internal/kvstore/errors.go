package kvstore

import "errors"

// ErrKeyNotFound is returned when a key does not exist in the store.
var ErrKeyNotFound = errors.New("kvstore: key not found")

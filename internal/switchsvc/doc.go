// Package switchsvc implements the relay switch services exported through
// the accessory protocol.
//
// A switch slot is configured with a service type code selecting the
// exported variant (switch, outlet, lock; unknown codes yield a hidden
// switch kept only for ownership and button cycling), an input mode
// (momentary, follow, flip, detached), an initial-state policy and an
// optional auto-off timer. Inputs in detached mode are exported separately
// as stateless switch accessories.
package switchsvc

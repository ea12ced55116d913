package hap

import "sync"

// SimEngine is a stand-in accessory-protocol engine for the simulator
// daemon and tests. It models the lifecycle state machine and accessory
// table bookkeeping without any transport.
//
// By default Stop transitions straight to idle and fires the state-update
// callback synchronously. With deferred-stop mode enabled, Stop parks the
// engine in StateStopping until ReachIdle is called, which is how tests
// exercise the deferred teardown path.
type SimEngine struct {
	mu sync.Mutex

	state    State
	paired   bool
	sessions int
	stats    SessionStats

	deferredStop bool

	root    *Accessory
	bridged []*Accessory

	stateCB func(State)
}

// NewSimEngine creates an idle, unpaired engine.
func NewSimEngine() *SimEngine {
	return &SimEngine{}
}

// State implements Engine.
func (e *SimEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start implements Engine.
func (e *SimEngine) Start(root *Accessory) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrNotIdle
	}
	e.root = root
	e.bridged = nil
	e.state = StateRunning
	cb := e.stateCB
	e.mu.Unlock()

	if cb != nil {
		cb(StateRunning)
	}
	return nil
}

// StartBridge implements Engine.
func (e *SimEngine) StartBridge(root *Accessory, bridged []*Accessory, configChanged bool) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrNotIdle
	}
	e.root = root
	e.bridged = bridged
	e.state = StateRunning
	cb := e.stateCB
	e.mu.Unlock()

	_ = configChanged
	if cb != nil {
		cb(StateRunning)
	}
	return nil
}

// Stop implements Engine.
func (e *SimEngine) Stop() {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return
	}
	if e.deferredStop {
		e.state = StateStopping
		cb := e.stateCB
		e.mu.Unlock()
		if cb != nil {
			cb(StateStopping)
		}
		return
	}
	e.idleLocked()
}

// ReachIdle completes a deferred stop, transitioning to idle and firing
// the state-update callback.
func (e *SimEngine) ReachIdle() {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return
	}
	e.idleLocked()
}

// idleLocked transitions to idle and fires the callback.
// Must be entered with the mutex held; releases it.
func (e *SimEngine) idleLocked() {
	e.state = StateIdle
	e.root = nil
	e.bridged = nil
	cb := e.stateCB
	e.mu.Unlock()
	if cb != nil {
		cb(StateIdle)
	}
}

// IsPaired implements Engine.
func (e *SimEngine) IsPaired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paired
}

// SetPaired sets the simulated pairing state.
func (e *SimEngine) SetPaired(paired bool) {
	e.mu.Lock()
	e.paired = paired
	e.mu.Unlock()
}

// SetDeferredStop makes Stop park in StateStopping until ReachIdle.
func (e *SimEngine) SetDeferredStop(deferred bool) {
	e.mu.Lock()
	e.deferredStop = deferred
	e.mu.Unlock()
}

// SetSessions sets the simulated connected session count.
func (e *SimEngine) SetSessions(n int) {
	e.mu.Lock()
	e.sessions = n
	e.mu.Unlock()
}

// EnumerateSessions implements Engine.
func (e *SimEngine) EnumerateSessions(fn func()) {
	e.mu.Lock()
	n := e.sessions
	e.mu.Unlock()
	for i := 0; i < n; i++ {
		fn()
	}
}

// StreamStats implements Engine.
func (e *SimEngine) StreamStats() SessionStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// SetStreamStats sets the simulated transport counters.
func (e *SimEngine) SetStreamStats(stats SessionStats) {
	e.mu.Lock()
	e.stats = stats
	e.mu.Unlock()
}

// SetStateUpdateCallback implements Engine.
func (e *SimEngine) SetStateUpdateCallback(fn func(State)) {
	e.mu.Lock()
	e.stateCB = fn
	e.mu.Unlock()
}

// Root returns the accessory the engine was last started with.
func (e *SimEngine) Root() *Accessory {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Bridged returns the bridged accessory list (including the nil sentinel)
// the engine was last started with, or nil in single-accessory mode.
func (e *SimEngine) Bridged() []*Accessory {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridged
}

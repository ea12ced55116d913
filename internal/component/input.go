package component

import "sync"

// Event is a debounced, classified input event.
//
// Classification (debounce, short/long hold thresholds, reset sequence
// detection) is the input driver's job; consumers only see the result.
type Event int

const (
	// EventChange fires on every debounced level change.
	EventChange Event = iota
	// EventSingle fires on a completed short press.
	EventSingle
	// EventLong fires when the hold exceeds the long-press threshold.
	EventLong
	// EventReset fires when the driver has recognised a full
	// factory-reset hold sequence.
	EventReset
)

// String returns a short label for logging.
func (e Event) String() string {
	switch e {
	case EventChange:
		return "change"
	case EventSingle:
		return "single"
	case EventLong:
		return "long"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// InputHandler consumes classified input events together with the current
// debounced level.
type InputHandler func(ev Event, state bool)

// Input is a debounced digital input with an event stream.
type Input interface {
	ID() int

	// Init prepares the underlying hardware.
	Init() error

	// GetState returns the current debounced level.
	GetState() bool

	// AddHandler registers an event consumer. Handlers run synchronously
	// in registration order on the event dispatch path.
	AddHandler(h InputHandler)

	// ClearHandlers drops all registered handlers. Called when the
	// exported components that subscribed to this input are torn down.
	ClearHandlers()
}

// SimInput is an in-memory Input for the simulator daemon and tests.
// Event classification is driven explicitly via Single/Long/Reset.
type SimInput struct {
	id int

	mu       sync.Mutex
	state    bool
	handlers []InputHandler
}

// NewSimInput creates a simulated input, initially released.
func NewSimInput(id int) *SimInput {
	return &SimInput{id: id}
}

// ID implements Input.
func (in *SimInput) ID() int { return in.id }

// Init implements Input.
func (in *SimInput) Init() error { return nil }

// GetState implements Input.
func (in *SimInput) GetState() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// AddHandler implements Input.
func (in *SimInput) AddHandler(h InputHandler) {
	in.mu.Lock()
	in.handlers = append(in.handlers, h)
	in.mu.Unlock()
}

// ClearHandlers implements Input.
func (in *SimInput) ClearHandlers() {
	in.mu.Lock()
	in.handlers = nil
	in.mu.Unlock()
}

// SetState sets the debounced level and fires EventChange on a change.
func (in *SimInput) SetState(state bool) {
	in.mu.Lock()
	changed := in.state != state
	in.state = state
	handlers := in.snapshotLocked()
	in.mu.Unlock()

	if !changed {
		return
	}
	for _, h := range handlers {
		h(EventChange, state)
	}
}

// Single fires a classified single-press event.
func (in *SimInput) Single() { in.fire(EventSingle) }

// Long fires a classified long-press event.
func (in *SimInput) Long() { in.fire(EventLong) }

// Reset fires a classified reset-sequence event.
func (in *SimInput) Reset() { in.fire(EventReset) }

func (in *SimInput) fire(ev Event) {
	in.mu.Lock()
	state := in.state
	handlers := in.snapshotLocked()
	in.mu.Unlock()

	for _, h := range handlers {
		h(ev, state)
	}
}

func (in *SimInput) snapshotLocked() []InputHandler {
	handlers := make([]InputHandler, len(in.handlers))
	copy(handlers, in.handlers)
	return handlers
}

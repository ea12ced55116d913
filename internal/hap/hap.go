package hap

// State is the accessory-protocol engine lifecycle state.
type State int

const (
	// StateIdle: engine fully stopped, no accessory references held.
	// Component teardown is only safe in this state.
	StateIdle State = iota
	// StateStarting: engine is coming up.
	StateStarting
	// StateRunning: engine is serving the accessory topology.
	StateRunning
	// StateStopping: stop requested, sessions draining.
	StateStopping
)

// String returns a short label for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Category is the accessory-protocol category code advertised for an
// accessory. Values follow the accessory protocol specification.
type Category int

const (
	CategoryBridge           Category = 2
	CategoryBridgedAccessory Category = 2
	CategoryLocks            Category = 6
	CategoryOutlets          Category = 7
	CategorySwitches         Category = 8
)

// Accessory identifier bases. A switch's accessory identifier is
// base + device id, which keeps identifiers stable across restarts and
// collision-free across switch kinds.
const (
	AIDPrimary             uint64 = 1
	AIDBaseSwitch          uint64 = 0x100
	AIDBaseOutlet          uint64 = 0x200
	AIDBaseLock            uint64 = 0x300
	AIDBaseStatelessSwitch uint64 = 0x400
)

// SessionStats describes the engine's transport stream usage,
// reported in the periodic status line.
type SessionStats struct {
	Pending uint
	Active  uint
	Max     uint
}

// Engine is the accessory-protocol engine contract. The engine itself
// (transport, sessions, pairing cryptography) is an external collaborator;
// the orchestrator only drives it through these operations.
type Engine interface {
	// State returns the engine lifecycle state.
	State() State

	// Start serves a single accessory.
	Start(root *Accessory) error

	// StartBridge serves root as a bridge over the bridged accessories.
	// The bridged list is ordered and terminated by a nil sentinel, as
	// required by the engine's accessory table contract.
	StartBridge(root *Accessory, bridged []*Accessory, configChanged bool) error

	// Stop requests an asynchronous stop. Completion is signalled through
	// the state-update callback reaching StateIdle.
	Stop()

	// IsPaired reports whether at least one controller is paired.
	IsPaired() bool

	// EnumerateSessions invokes fn once per connected session.
	EnumerateSessions(fn func())

	// StreamStats returns transport stream usage counters.
	StreamStats() SessionStats

	// SetStateUpdateCallback registers the state transition notification.
	// The callback may be invoked from the engine's own goroutine.
	SetStateUpdateCallback(fn func(State))
}

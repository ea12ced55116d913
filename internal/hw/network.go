package hw

import "sync"

// WifiStatus is the coarse station connection state.
type WifiStatus int

const (
	WifiDisconnected WifiStatus = iota
	// WifiConnecting and WifiConnected are transient: association is in
	// progress or complete but no address has been acquired yet.
	WifiConnecting
	WifiConnected
	// WifiGotIP is the settled state with an address acquired.
	WifiGotIP
)

// String returns a short label for logging.
func (s WifiStatus) String() string {
	switch s {
	case WifiConnecting:
		return "connecting"
	case WifiConnected:
		return "connected"
	case WifiGotIP:
		return "got ip"
	default:
		return "disconnected"
	}
}

// Network is the networking capability consumed by the orchestrator.
// On platforms without networking a nil Network is accepted everywhere.
type Network interface {
	// Status returns the current station connection state.
	Status() WifiStatus

	// Reconfigure re-applies station/AP settings after a config change.
	// The reset sequence calls this after forcing AP mode on.
	Reconfigure(staEnable, apEnable bool) error
}

// SimNetwork is an in-memory Network used by the simulator daemon and tests.
type SimNetwork struct {
	mu        sync.Mutex
	status    WifiStatus
	staEnable bool
	apEnable  bool
}

// NewSimNetwork creates a disconnected simulated network.
func NewSimNetwork() *SimNetwork {
	return &SimNetwork{}
}

// Status implements Network.
func (n *SimNetwork) Status() WifiStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

// SetStatus sets the simulated station state.
func (n *SimNetwork) SetStatus(status WifiStatus) {
	n.mu.Lock()
	n.status = status
	n.mu.Unlock()
}

// Reconfigure implements Network.
func (n *SimNetwork) Reconfigure(staEnable, apEnable bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.staEnable = staEnable
	n.apEnable = apEnable
	if !staEnable {
		n.status = WifiDisconnected
	}
	return nil
}

// Applied returns the last settings passed to Reconfigure.
func (n *SimNetwork) Applied() (staEnable, apEnable bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.staEnable, n.apEnable
}

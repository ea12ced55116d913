package component

import "sync"

// PowerMeter samples instantaneous power draw on one channel.
type PowerMeter interface {
	ID() int

	// GetPowerW returns the current draw in watts.
	GetPowerW() (float64, error)
}

// SimPowerMeter is an in-memory PowerMeter with a settable reading.
type SimPowerMeter struct {
	id int

	mu    sync.Mutex
	watts float64
	err   error
}

// NewSimPowerMeter creates a simulated meter reading zero watts.
func NewSimPowerMeter(id int) *SimPowerMeter {
	return &SimPowerMeter{id: id}
}

// ID implements PowerMeter.
func (m *SimPowerMeter) ID() int { return m.id }

// GetPowerW implements PowerMeter.
func (m *SimPowerMeter) GetPowerW() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watts, m.err
}

// SetPowerW sets the simulated reading.
func (m *SimPowerMeter) SetPowerW(watts float64) {
	m.mu.Lock()
	m.watts = watts
	m.mu.Unlock()
}

// SetError makes subsequent reads fail.
func (m *SimPowerMeter) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

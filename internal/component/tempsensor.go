package component

import "sync"

// TempSensor samples the system temperature used by the overheat interlock.
// Its absence is normal on some hardware variants.
type TempSensor interface {
	// GetTemperature returns degrees Celsius.
	GetTemperature() (float64, error)
}

// SimTempSensor is an in-memory TempSensor with a settable reading.
type SimTempSensor struct {
	mu      sync.Mutex
	celsius float64
	err     error
}

// NewSimTempSensor creates a simulated sensor at the given temperature.
func NewSimTempSensor(celsius float64) *SimTempSensor {
	return &SimTempSensor{celsius: celsius}
}

// GetTemperature implements TempSensor.
func (s *SimTempSensor) GetTemperature() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.celsius, s.err
}

// SetTemperature sets the simulated reading.
func (s *SimTempSensor) SetTemperature(celsius float64) {
	s.mu.Lock()
	s.celsius = celsius
	s.mu.Unlock()
}

// SetError makes subsequent reads fail.
func (s *SimTempSensor) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

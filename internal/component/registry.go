package component

import "sync"

// Registry owns all physical and logical device components.
//
// It is populated exactly once at boot by the peripheral construction
// collaborator and then frozen; growth afterwards is a programming error.
// Reconfiguration requires a full rebuild (Clear + repopulate), which the
// service lifecycle controller performs only after the protocol engine has
// reported its idle state.
//
// Components are owned by the registry; everything else refers to them by
// identifier lookup and must not retain references across a Clear.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	inputs     []Input
	outputs    []Output
	meters     []PowerMeter
	tempSensor TempSensor

	// comps are the exported components in registration order. The order
	// matters: the button router packs switch states into a bitfield by
	// this order.
	comps []Component

	frozen bool
}

// NewRegistry creates an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddInput registers an input. Returns ErrRegistryFrozen after Freeze.
func (r *Registry) AddInput(in Input) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.inputs = append(r.inputs, in)
	return nil
}

// AddOutput registers an output.
func (r *Registry) AddOutput(out Output) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.outputs = append(r.outputs, out)
	return nil
}

// AddPowerMeter registers a power meter.
func (r *Registry) AddPowerMeter(m PowerMeter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.meters = append(r.meters, m)
	return nil
}

// SetTempSensor registers the system temperature sensor. A nil sensor is
// valid: the overheat interlock simply skips evaluation.
func (r *Registry) SetTempSensor(s TempSensor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.tempSensor = s
	return nil
}

// AddComponent registers an exported component (switch, stateless switch).
func (r *Registry) AddComponent(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.comps = append(r.comps, c)
	return nil
}

// Freeze disallows further growth.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// ClearComponents drops the exported components and unfreezes the registry,
// keeping peripherals (inputs, outputs, meters, sensor) intact. Used when
// the accessory topology is torn down for a rebuild after the protocol
// engine reports idle.
func (r *Registry) ClearComponents() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comps = nil
	r.frozen = false
}

// Clear drops all registered components and unfreezes the registry.
// Callers must ensure no in-flight protocol session references a component.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs = nil
	r.outputs = nil
	r.meters = nil
	r.tempSensor = nil
	r.comps = nil
	r.frozen = false
}

// FindInput returns the input with the given id.
// Returns ErrNotFound when absent.
func (r *Registry) FindInput(id int) (Input, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, in := range r.inputs {
		if in.ID() == id {
			return in, nil
		}
	}
	return nil, ErrNotFound
}

// FindOutput returns the output with the given id.
func (r *Registry) FindOutput(id int) (Output, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, out := range r.outputs {
		if out.ID() == id {
			return out, nil
		}
	}
	return nil, ErrNotFound
}

// FindPowerMeter returns the power meter with the given id.
func (r *Registry) FindPowerMeter(id int) (PowerMeter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.meters {
		if m.ID() == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// TempSensor returns the system temperature sensor.
// Returns ErrNotFound when the hardware variant has none.
func (r *Registry) TempSensor() (TempSensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tempSensor == nil {
		return nil, ErrNotFound
	}
	return r.tempSensor, nil
}

// Components returns the exported components in registration order.
// The returned slice is a copy; the components themselves are shared.
func (r *Registry) Components() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	comps := make([]Component, len(r.comps))
	copy(comps, r.comps)
	return comps
}

// Outputs returns all registered outputs in registration order.
// The overheat interlock uses this to force every output off.
func (r *Registry) Outputs() []Output {
	r.mu.RLock()
	defer r.mu.RUnlock()
	outs := make([]Output, len(r.outputs))
	copy(outs, r.outputs)
	return outs
}

// Inputs returns all registered inputs in registration order.
func (r *Registry) Inputs() []Input {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ins := make([]Input, len(r.inputs))
	copy(ins, r.inputs)
	return ins
}

// Meters returns all registered power meters in registration order.
func (r *Registry) Meters() []PowerMeter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meters := make([]PowerMeter, len(r.meters))
	copy(meters, r.meters)
	return meters
}

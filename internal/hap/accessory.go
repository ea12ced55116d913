package hap

import (
	"github.com/nerrad567/relay-core/internal/component"
)

// Accessory is an exported unit in the accessory-protocol topology.
//
// It aggregates one or more services. Services are non-owning references
// into the component registry; the accessory never outlives the registry
// contents it points at (teardown is gated on the engine reaching idle).
type Accessory struct {
	aid      uint64
	category Category
	name     string
	identify func()

	svcs []component.Component
}

// NewAccessory creates an accessory with the given identifier, category and
// identify callback. The identify callback may be nil.
func NewAccessory(aid uint64, category Category, name string, identify func()) *Accessory {
	return &Accessory{
		aid:      aid,
		category: category,
		name:     name,
		identify: identify,
	}
}

// AID returns the accessory identifier.
func (a *Accessory) AID() uint64 { return a.aid }

// Category returns the advertised category.
func (a *Accessory) Category() Category { return a.category }

// SetCategory overrides the advertised category. Used when a switch service
// is promoted into the primary accessory in legacy layout mode.
func (a *Accessory) SetCategory(category Category) { a.category = category }

// Name returns the accessory display name.
func (a *Accessory) Name() string { return a.name }

// AddService attaches a service to the accessory.
func (a *Accessory) AddService(c component.Component) {
	a.svcs = append(a.svcs, c)
}

// Services returns the attached services in attachment order.
func (a *Accessory) Services() []component.Component {
	return a.svcs
}

// Identify triggers the accessory's identify routine, if any.
func (a *Accessory) Identify() {
	if a.identify != nil {
		a.identify()
	}
}

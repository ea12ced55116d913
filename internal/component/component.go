package component

// Type tags the component variants known to the registry.
// The numeric values appear in the periodic status line and must stay stable.
type Type int

const (
	TypeInput           Type = 1
	TypeOutput          Type = 2
	TypePowerMeter      Type = 3
	TypeTempSensor      Type = 4
	TypeSwitch          Type = 5
	TypeOutlet          Type = 6
	TypeLock            Type = 7
	TypeStatelessSwitch Type = 8
)

// Component is any exported device capability with a stable identifier.
// Identifiers are unique within a component class and assigned at
// construction from the static hardware topology.
type Component interface {
	// Type returns the component's type tag.
	Type() Type

	// ID returns the component's class-scoped identifier.
	ID() int

	// GetInfo returns a short human-readable status fragment for the
	// aggregated status line.
	GetInfo() (string, error)
}

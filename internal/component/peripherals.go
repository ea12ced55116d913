package component

import (
	"fmt"

	"github.com/nerrad567/relay-core/internal/hw"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
)

// defaultTemperature is the starting reading of the simulated sensor,
// comfortably below any sane overheat threshold.
const defaultTemperature = 35.0

// SimPeripherals populates a registry with simulated peripherals derived
// from the device configuration: one input and one relay output per switch
// slot, a power meter for metered slots and the system temperature sensor.
//
// Peripherals are built once at boot and survive accessory teardown.
type SimPeripherals struct {
	device *config.DeviceConfig
	gpio   hw.GPIO
	logger Logger
}

// NewSimPeripherals creates the factory for a device configuration.
func NewSimPeripherals(device *config.DeviceConfig, gpio hw.GPIO) *SimPeripherals {
	return &SimPeripherals{device: device, gpio: gpio, logger: noopLogger{}}
}

// SetLogger sets the logger handed to the built peripherals.
func (p *SimPeripherals) SetLogger(logger Logger) {
	p.logger = logger
}

// CreatePeripherals builds and registers the peripherals for every slot.
func (p *SimPeripherals) CreatePeripherals(reg *Registry) error {
	for i := range p.device.Switches {
		sw := &p.device.Switches[i]

		in := NewSimInput(sw.ID)
		if err := in.Init(); err != nil {
			return fmt.Errorf("initialising input %d: %w", sw.ID, err)
		}
		if err := reg.AddInput(in); err != nil {
			return fmt.Errorf("registering input %d: %w", sw.ID, err)
		}

		out := NewPinOutput(sw.ID, sw.OutPin, false, p.gpio)
		out.SetLogger(p.logger)
		if err := reg.AddOutput(out); err != nil {
			return fmt.Errorf("registering output %d: %w", sw.ID, err)
		}

		if sw.PowerMeter {
			if err := reg.AddPowerMeter(NewSimPowerMeter(sw.ID)); err != nil {
				return fmt.Errorf("registering power meter %d: %w", sw.ID, err)
			}
		}
	}

	if err := reg.SetTempSensor(NewSimTempSensor(defaultTemperature)); err != nil {
		return fmt.Errorf("registering temperature sensor: %w", err)
	}
	return nil
}

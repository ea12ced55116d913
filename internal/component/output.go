package component

import (
	"sync"

	"github.com/nerrad567/relay-core/internal/hw"
)

// Logger defines the logging interface used by pin-backed components.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Output is a digital output channel (relay coil, indicator pin).
// SetState carries a short reason tag for logging and telemetry
// ("btn", "auto_off", "OVH", "init", ...).
type Output interface {
	ID() int
	GetState() bool
	SetState(on bool, source string) error
}

// PinOutput drives a GPIO pin.
type PinOutput struct {
	id        int
	pin       int
	activeLow bool
	gpio      hw.GPIO
	logger    Logger

	mu    sync.Mutex
	state bool
}

// NewPinOutput creates an output on the given pin, driven off.
func NewPinOutput(id, pin int, activeLow bool, gpio hw.GPIO) *PinOutput {
	o := &PinOutput{id: id, pin: pin, activeLow: activeLow, gpio: gpio, logger: noopLogger{}}
	o.gpio.SetupOutput(o.pin, o.level(false))
	return o
}

// SetLogger sets the logger for the output.
func (o *PinOutput) SetLogger(logger Logger) {
	o.logger = logger
}

// ID implements Output.
func (o *PinOutput) ID() int { return o.id }

// GetState implements Output.
func (o *PinOutput) GetState() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetState implements Output.
func (o *PinOutput) SetState(on bool, source string) error {
	o.mu.Lock()
	o.state = on
	o.mu.Unlock()
	o.gpio.SetupOutput(o.pin, o.level(on))
	o.logger.Debug("output state", "id", o.id, "pin", o.pin, "state", on, "source", source)
	return nil
}

// level maps a logical state to the electrical level.
func (o *PinOutput) level(on bool) bool {
	if o.activeLow {
		return !on
	}
	return on
}

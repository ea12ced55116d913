package hw

import "sync"

// PinMode selects the direction of a GPIO pin.
type PinMode int

const (
	// ModeInput puts the pin in high-impedance input mode. The LED driver
	// uses this as its power-saving idle state.
	ModeInput PinMode = iota
	// ModeOutput drives the pin.
	ModeOutput
)

// GPIO is the pin control capability the orchestrator needs: static output
// levels, mode selection and hardware-assisted blinking.
//
// Implementations must tolerate repeated identical calls; the LED driver
// relies on reprogramming being cheap but still avoids it when the pattern
// is unchanged.
type GPIO interface {
	// SetMode switches the pin between input and output.
	SetMode(pin int, mode PinMode)

	// SetupOutput puts the pin in output mode and drives it to level.
	// Any active blink on the pin is stopped.
	SetupOutput(pin int, level bool)

	// Blink drives the pin with a repeating on/off pattern in milliseconds.
	// Blink(pin, 0, 0) stops blinking and leaves the pin level as is.
	Blink(pin int, onMs, offMs int)
}

// pinState is the simulated state of one pin.
type pinState struct {
	mode    PinMode
	level   bool
	blinkOn int
	blinkOf int
}

// SimGPIO is an in-memory GPIO used by the simulator daemon and tests.
// It records the last programmed mode, level and blink pattern per pin.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type SimGPIO struct {
	mu   sync.Mutex
	pins map[int]*pinState
}

// NewSimGPIO creates an empty simulated GPIO bank.
func NewSimGPIO() *SimGPIO {
	return &SimGPIO{pins: make(map[int]*pinState)}
}

func (g *SimGPIO) pin(pin int) *pinState {
	p, ok := g.pins[pin]
	if !ok {
		p = &pinState{mode: ModeInput}
		g.pins[pin] = p
	}
	return p
}

// SetMode implements GPIO.
func (g *SimGPIO) SetMode(pin int, mode PinMode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pin(pin).mode = mode
}

// SetupOutput implements GPIO.
func (g *SimGPIO) SetupOutput(pin int, level bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.pin(pin)
	p.mode = ModeOutput
	p.level = level
	p.blinkOn = 0
	p.blinkOf = 0
}

// Blink implements GPIO.
func (g *SimGPIO) Blink(pin int, onMs, offMs int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.pin(pin)
	p.blinkOn = onMs
	p.blinkOf = offMs
}

// Mode returns the last programmed mode of a pin.
func (g *SimGPIO) Mode(pin int) PinMode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pin(pin).mode
}

// Level returns the last driven output level of a pin.
func (g *SimGPIO) Level(pin int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pin(pin).level
}

// BlinkPattern returns the active blink pattern of a pin (0, 0 when idle).
func (g *SimGPIO) BlinkPattern(pin int) (onMs, offMs int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.pin(pin)
	return p.blinkOn, p.blinkOf
}

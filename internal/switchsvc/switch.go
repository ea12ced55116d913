package switchsvc

import (
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/hw"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
)

// Logger defines the logging interface used by the switch service.
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

// StateCallback is invoked after every effective state change with the
// reason tag that caused it.
type StateCallback func(sw *Switch, on bool, source string)

// Options configures a Switch.
type Options struct {
	ID     int
	Config *config.SwitchConfig

	// Input may be nil (no bound input for this slot).
	Input component.Input
	// Output must be present; a switch without an output cannot initialise.
	Output component.Output
	// Meter may be nil (hardware variant without power metering).
	Meter component.PowerMeter

	// Scheduler arms the auto-off timer. Required when Config.AutoOff is set.
	Scheduler hw.Scheduler
}

// Switch is a relay switch service.
//
// The exported variant (plain switch, outlet, lock) is selected by the
// stored service type code; unrecognised codes produce a hidden switch
// that participates in button cycling and ownership but is never exported
// as its own accessory.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Switch struct {
	id  int
	typ component.Type

	hidden  bool
	primary bool

	in    component.Input
	out   component.Output
	meter component.PowerMeter
	sched hw.Scheduler

	cfg *config.SwitchConfig

	// mu serialises state transitions; it guards the output write, the
	// persisted cfg.State mirror and the auto-off timer handle. The
	// auto-off action runs on a scheduler goroutine and takes it too.
	mu            sync.Mutex
	cancelAutoOff func()

	logger  Logger
	onState StateCallback
	// onPersist is invoked when the last-known state in config changed
	// and should eventually reach disk.
	onPersist func()
}

// New constructs a switch service from its stored configuration.
// The variant is selected by cfg.SvcType; unknown codes yield a hidden switch.
func New(opts Options) *Switch {
	typ := component.TypeSwitch
	hidden := false
	switch opts.Config.SvcType {
	case config.SvcTypeSwitch:
		typ = component.TypeSwitch
	case config.SvcTypeOutlet:
		typ = component.TypeOutlet
	case config.SvcTypeLock:
		typ = component.TypeLock
	default:
		hidden = true
	}

	return &Switch{
		id:     opts.ID,
		typ:    typ,
		hidden: hidden,
		in:     opts.Input,
		out:    opts.Output,
		meter:  opts.Meter,
		sched:  opts.Scheduler,
		cfg:    opts.Config,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the switch.
func (s *Switch) SetLogger(logger Logger) {
	s.logger = logger
}

// SetStateCallback registers a callback for effective state changes.
func (s *Switch) SetStateCallback(cb StateCallback) {
	s.onState = cb
}

// SetPersistCallback registers a callback fired when the persisted
// last-known state changed.
func (s *Switch) SetPersistCallback(cb func()) {
	s.onPersist = cb
}

// Init applies the initial-state policy and binds the input per the
// configured input mode. It must be called exactly once.
func (s *Switch) Init() error {
	if s.out == nil {
		return fmt.Errorf("switch %d: %w", s.id, ErrNoOutput)
	}

	initial := false
	switch s.cfg.InitialState {
	case config.InitialStateOff:
		initial = false
	case config.InitialStateOn:
		initial = true
	case config.InitialStateLast:
		initial = s.cfg.State
	case config.InitialStateInput:
		if s.in != nil {
			initial = s.in.GetState()
		}
	}
	if err := s.out.SetState(initial, "init"); err != nil {
		return fmt.Errorf("switch %d: applying initial state: %w", s.id, err)
	}
	s.cfg.State = initial
	if initial {
		s.armAutoOff()
	}

	if s.in != nil {
		s.in.AddHandler(s.handleInput)
	}

	s.logger.Info("switch initialised",
		"id", s.id,
		"type", int(s.typ),
		"hidden", s.hidden,
		"state", initial,
		"in_mode", s.cfg.InMode,
	)
	return nil
}

// handleInput reacts to the bound input per the configured input mode.
func (s *Switch) handleInput(ev component.Event, state bool) {
	switch s.cfg.InMode {
	case config.InModeMomentary:
		if ev == component.EventSingle {
			if err := s.SetState(!s.GetState(), "button"); err != nil {
				s.logger.Error("input toggle failed", "id", s.id, "error", err)
			}
		}
	case config.InModeFollow:
		if ev == component.EventChange {
			if err := s.SetState(state, "switch"); err != nil {
				s.logger.Error("input follow failed", "id", s.id, "error", err)
			}
		}
	case config.InModeFlip:
		if ev == component.EventChange {
			if err := s.SetState(!s.GetState(), "switch"); err != nil {
				s.logger.Error("input flip failed", "id", s.id, "error", err)
			}
		}
	case config.InModeDetached:
		// Input drives a stateless switch accessory instead.
	}
}

// ID implements component.Component.
func (s *Switch) ID() int { return s.id }

// Type implements component.Component.
func (s *Switch) Type() component.Type { return s.typ }

// GetInfo implements component.Component.
func (s *Switch) GetInfo() (string, error) {
	st := 0
	if s.GetState() {
		st = 1
	}
	if s.meter != nil {
		watts, err := s.meter.GetPowerW()
		if err == nil {
			return fmt.Sprintf("st %d, %.1fW", st, watts), nil
		}
	}
	return fmt.Sprintf("st %d", st), nil
}

// GetState returns the current output state.
func (s *Switch) GetState() bool {
	return s.out.GetState()
}

// SetState sets the output state with a reason tag.
// Setting the current state again is a no-op. Callbacks and the timer
// arming run outside the mutex so the auto-off action may re-enter.
func (s *Switch) SetState(on bool, source string) error {
	s.mu.Lock()
	if s.out.GetState() == on {
		s.mu.Unlock()
		return nil
	}
	if err := s.out.SetState(on, source); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("switch %d: %w", s.id, err)
	}

	// Remember the state so InitialStateLast can restore it.
	persist := s.cfg.State != on
	s.cfg.State = on

	var cancel func()
	if !on {
		cancel = s.cancelAutoOff
		s.cancelAutoOff = nil
	}
	s.mu.Unlock()

	s.logger.Info("switch state", "id", s.id, "state", on, "source", source)

	if on {
		s.armAutoOff()
	} else if cancel != nil {
		cancel()
	}

	if persist && s.onPersist != nil {
		s.onPersist()
	}
	if s.onState != nil {
		s.onState(s, on, source)
	}
	return nil
}

// armAutoOff schedules the auto-off action if configured.
// Re-arming replaces any pending timer. The timer is armed outside the
// mutex: a zero-delay scheduler may run the action synchronously, and the
// action takes the mutex to cancel itself.
func (s *Switch) armAutoOff() {
	if !s.cfg.AutoOff || s.sched == nil {
		return
	}
	delay := time.Duration(s.cfg.AutoOffDelay * float64(time.Second))

	s.cancelAutoOffTimer()
	cancel := s.sched.AfterFunc(delay, func() {
		if err := s.SetState(false, "auto_off"); err != nil {
			s.logger.Error("auto-off failed", "id", s.id, "error", err)
		}
	})

	s.mu.Lock()
	s.cancelAutoOff = cancel
	s.mu.Unlock()
}

// cancelAutoOffTimer cancels a pending auto-off, if any.
func (s *Switch) cancelAutoOffTimer() {
	s.mu.Lock()
	if s.cancelAutoOff != nil {
		s.cancelAutoOff()
		s.cancelAutoOff = nil
	}
	s.mu.Unlock()
}

// Hidden reports whether the switch is constructed but never exported as
// its own accessory.
func (s *Switch) Hidden() bool { return s.hidden }

// SetPrimary marks the switch as a service of the primary accessory.
func (s *Switch) SetPrimary(primary bool) { s.primary = primary }

// IsPrimary reports whether the switch is attached to the primary accessory.
func (s *Switch) IsPrimary() bool { return s.primary }

// Name returns the configured display name.
func (s *Switch) Name() string { return s.cfg.Name }

// AID returns the stable accessory identifier for the switch variant:
// kind base + device id.
func (s *Switch) AID() uint64 {
	switch s.typ {
	case component.TypeOutlet:
		return hap.AIDBaseOutlet + uint64(s.id)
	case component.TypeLock:
		return hap.AIDBaseLock + uint64(s.id)
	default:
		return hap.AIDBaseSwitch + uint64(s.id)
	}
}

// Category returns the accessory category for the switch variant.
func (s *Switch) Category() hap.Category {
	switch s.typ {
	case component.TypeOutlet:
		return hap.CategoryOutlets
	case component.TypeLock:
		return hap.CategoryLocks
	default:
		return hap.CategorySwitches
	}
}

package switchsvc

import (
	"fmt"
	"sync"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
)

// StatelessSwitch exports an input in detached mode as a programmable
// stateless switch accessory: presses are announced to controllers but
// drive no local output.
type StatelessSwitch struct {
	id  int
	in  component.Input
	cfg *config.StatelessSwitchConfig

	mu        sync.Mutex
	lastEvent component.Event
	count     int

	logger Logger
}

// NewStateless constructs a stateless switch bound to an input.
func NewStateless(id int, in component.Input, cfg *config.StatelessSwitchConfig) *StatelessSwitch {
	return &StatelessSwitch{
		id:     id,
		in:     in,
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the stateless switch.
func (s *StatelessSwitch) SetLogger(logger Logger) {
	s.logger = logger
}

// Init binds the input event stream. Returns ErrNoInput when the slot has
// no input to observe.
func (s *StatelessSwitch) Init() error {
	if s.in == nil {
		return fmt.Errorf("stateless switch %d: %w", s.id, ErrNoInput)
	}
	s.in.AddHandler(s.handleInput)
	s.logger.Info("stateless switch initialised", "id", s.id)
	return nil
}

// handleInput records classified presses for controller notification.
func (s *StatelessSwitch) handleInput(ev component.Event, _ bool) {
	if ev != component.EventSingle && ev != component.EventLong {
		return
	}
	s.mu.Lock()
	s.lastEvent = ev
	s.count++
	s.mu.Unlock()
	s.logger.Debug("stateless switch event", "id", s.id, "event", ev.String())
}

// ID implements component.Component.
func (s *StatelessSwitch) ID() int { return s.id }

// Type implements component.Component.
func (s *StatelessSwitch) Type() component.Type { return component.TypeStatelessSwitch }

// GetInfo implements component.Component.
func (s *StatelessSwitch) GetInfo() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return "no events", nil
	}
	return fmt.Sprintf("last %s, n %d", s.lastEvent, s.count), nil
}

// Name returns the configured display name.
func (s *StatelessSwitch) Name() string { return s.cfg.Name }

// AID returns the stable accessory identifier: stateless base + device id.
func (s *StatelessSwitch) AID() uint64 {
	return hap.AIDBaseStatelessSwitch + uint64(s.id)
}

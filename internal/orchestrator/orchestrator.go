package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/hw"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/kvstore"
)

// Housekeeping cadence.
const (
	tickInterval = time.Second
	// statusEvery is the number of ticks between status line reports.
	statusEvery = 8
)

// ErrMissingDependency is returned by New when a required collaborator
// is absent.
var ErrMissingDependency = errors.New("orchestrator: missing dependency")

// Logger defines the logging interface used by the orchestrator.
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

// PeripheralFactory builds the device's fixed peripherals (inputs, outputs,
// meters, temperature sensor) into the registry at boot.
type PeripheralFactory interface {
	CreatePeripherals(reg *component.Registry) error
}

// StatusSink receives the periodic status line and switch state
// announcements. Publishing is best-effort; errors are logged at debug
// level and otherwise ignored.
type StatusSink interface {
	PublishStatus(line string) error
	PublishSwitchState(switchID int, on bool) error
}

// Telemetry records time-series samples. Implementations must not block.
type Telemetry interface {
	RecordTemperature(celsius float64)
	RecordSwitchPower(switchID int, watts float64)
	RecordSwitchState(switchID int, on bool, source string)
}

// Options configures an Orchestrator.
type Options struct {
	Config      *config.Store
	Logger      Logger
	GPIO        hw.GPIO
	SysInfo     hw.SysInfo
	Scheduler   hw.Scheduler
	Engine      hap.Engine
	Registry    *component.Registry
	Peripherals PeripheralFactory

	// Network may be nil on platforms without networking.
	Network hw.Network
	// KV holds persistent accessory-protocol state; nil disables it.
	KV *kvstore.Store
	// Button is the user button input; nil when the device has none.
	Button component.Input
	// Provisioned overrides the default provisioning check (station
	// configured or access point enabled).
	Provisioned func() bool
	// StatusSink and Telemetry are optional reporting backends.
	StatusSink StatusSink
	Telemetry  Telemetry
}

// Orchestrator is the device brain: it owns the service lifecycle, the
// status LED, the overheat interlock, the button logic and the periodic
// housekeeping tick.
//
// Thread Safety:
//   - All entry points (tick, button events, timer callbacks, public
//     operations) are serialised on a single mutex. Work is short and
//     non-blocking, preserving the one-event-at-a-time model the device
//     logic assumes.
type Orchestrator struct {
	mu sync.Mutex

	store  *config.Store
	logger Logger
	gpio   hw.GPIO
	net    hw.Network
	sys    hw.SysInfo
	sched  hw.Scheduler
	engine hap.Engine
	reg    *component.Registry
	periph PeripheralFactory
	kv     *kvstore.Store
	btn    component.Input

	provisioned func() bool
	sink        StatusSink
	tele        Telemetry

	// runCtx scopes store operations; Background until Run is entered.
	runCtx context.Context

	flags         ServiceFlags
	identifyCount int
	led           ledPattern
	accs          []*hap.Accessory
	bridged       []*hap.Accessory
	tickCount     uint8
	cancelReset   func()

	// teardownPending is set by the engine state callback, which may run
	// while an entry point already holds the mutex; the actual teardown
	// happens on the next tick.
	teardownPending atomic.Bool
}

// New validates the collaborators and assembles an orchestrator. Nothing
// is started until Run.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Config == nil:
		return nil, fmt.Errorf("%w: config store", ErrMissingDependency)
	case opts.GPIO == nil:
		return nil, fmt.Errorf("%w: gpio", ErrMissingDependency)
	case opts.SysInfo == nil:
		return nil, fmt.Errorf("%w: sysinfo", ErrMissingDependency)
	case opts.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", ErrMissingDependency)
	case opts.Engine == nil:
		return nil, fmt.Errorf("%w: engine", ErrMissingDependency)
	case opts.Registry == nil:
		return nil, fmt.Errorf("%w: registry", ErrMissingDependency)
	case opts.Peripherals == nil:
		return nil, fmt.Errorf("%w: peripheral factory", ErrMissingDependency)
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	o := &Orchestrator{
		store:       opts.Config,
		logger:      logger,
		gpio:        opts.GPIO,
		net:         opts.Network,
		sys:         opts.SysInfo,
		sched:       opts.Scheduler,
		engine:      opts.Engine,
		reg:         opts.Registry,
		periph:      opts.Peripherals,
		kv:          opts.KV,
		btn:         opts.Button,
		provisioned: opts.Provisioned,
		sink:        opts.StatusSink,
		tele:        opts.Telemetry,
		runCtx:      context.Background(),
	}
	if o.provisioned == nil {
		o.provisioned = o.defaultProvisioned
	}
	return o, nil
}

// defaultProvisioned reports whether the device has any way to be reached:
// a configured station network or the provisioning access point.
func (o *Orchestrator) defaultProvisioned() bool {
	wifi := o.store.Config().Wifi
	return (wifi.STAEnable && wifi.STASSID != "") || wifi.APEnable
}

// Boot performs the one-time boot sequence: engine callback registration,
// configuration migrations, peripheral construction, button binding and
// the first service-start attempt. Migrations always complete before the
// service is started.
func (o *Orchestrator) Boot() error {
	o.engine.SetStateUpdateCallback(o.handleEngineState)

	o.mu.Lock()
	defer o.mu.Unlock()

	changed := o.migrateConfigLocked()
	if changed || o.store.FirstBoot() {
		o.store.MarkChanged()
		if err := o.store.Save(); err != nil {
			o.logger.Error("saving config", "error", err)
		}
	}

	if err := o.periph.CreatePeripherals(o.reg); err != nil {
		return fmt.Errorf("creating peripherals: %w", err)
	}
	if o.btn != nil {
		o.btn.AddHandler(o.handleButtonEvent)
	}

	o.startServiceLocked(false)
	o.checkLEDLocked()
	return nil
}

// Run boots the device and then drives the 1 Hz housekeeping tick until
// the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	o.runCtx = ctx
	o.mu.Unlock()

	if err := o.Boot(); err != nil {
		return err
	}
	o.logger.Info("orchestrator running")

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			return nil
		case <-ticker.C:
			o.Tick()
		}
	}
}

// Tick is the 1 Hz housekeeping pass. Exported so tests and the simulator
// can advance device time deterministically.
func (o *Orchestrator) Tick() {
	o.mu.Lock()
	defer o.mu.Unlock()

	cfg := o.store.Config()

	// The legacy single-accessory layout is only kept alive by the old
	// pairing. Once that pairing is gone, switch to the bridge layout.
	if cfg.Device.LegacyHAPLayout && !o.engine.IsPaired() {
		o.logger.Info("legacy pairing gone, switching to bridge layout")
		o.restartServiceLocked()
		return
	}

	if o.teardownPending.Swap(false) {
		o.teardownComponentsLocked()
	}

	o.startServiceLocked(true)
	o.checkLEDLocked()

	temp, tempErr := o.systemTemperatureLocked()
	if tempErr == nil {
		o.checkOverheatLocked(temp)
	}

	o.tickCount++
	if o.tickCount >= statusEvery {
		o.tickCount = 0
		o.reportStatusLocked(temp, tempErr == nil)
	}
}

// systemTemperatureLocked samples the system temperature sensor.
// component.ErrNotFound means the hardware variant has no sensor.
func (o *Orchestrator) systemTemperatureLocked() (float64, error) {
	sensor, err := o.reg.TempSensor()
	if err != nil {
		return 0, err
	}
	temp, err := sensor.GetTemperature()
	if err != nil {
		o.logger.Warn("reading temperature", "error", err)
		return 0, err
	}
	return temp, nil
}

// lockedScheduler defers actions through the orchestrator mutex, pulling
// timer callbacks into the one-event-at-a-time model. Switch auto-off
// timers run through it so their state writes cannot overlap a config
// save or another entry point.
type lockedScheduler struct {
	o *Orchestrator
}

func (s lockedScheduler) AfterFunc(d time.Duration, f func()) (cancel func()) {
	return s.o.sched.AfterFunc(d, func() {
		s.o.mu.Lock()
		defer s.o.mu.Unlock()
		f()
	})
}

// handleEngineState receives engine lifecycle transitions. It may be
// invoked synchronously from a start or stop call that already holds the
// orchestrator mutex, so only lock-free work happens here; teardown is
// deferred to the next tick.
func (o *Orchestrator) handleEngineState(state hap.State) {
	o.logger.Info("engine state", "state", state.String())
	if state == hap.StateIdle {
		o.teardownPending.Store(true)
	}
}

// Flags returns the current service flags.
func (o *Orchestrator) Flags() ServiceFlags {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flags
}

// AccessoryIdentify handles an identify request from a controller: the
// status LED blinks rapidly for the next few refresh cycles.
func (o *Orchestrator) AccessoryIdentify() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger.Info("identify requested")
	o.identifyCount = 3
	o.checkLEDLocked()
}

// HandleReboot prepares for an orderly restart: the reboot flag pins the
// service down and a running engine is stopped so controllers see a clean
// close.
func (o *Orchestrator) HandleReboot() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger.Info("reboot requested")
	o.flags |= FlagReboot
	if o.kv != nil {
		if _, err := o.kv.IncrementConfigNumber(o.runCtx); err != nil {
			o.logger.Error("incrementing configuration number", "error", err)
		}
	}
	if o.engine.State() == hap.StateRunning {
		o.engine.Stop()
	}
}

// shutdown runs once the run context is cancelled.
func (o *Orchestrator) shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.logger.Info("orchestrator shutting down")
	if o.cancelReset != nil {
		o.cancelReset()
		o.cancelReset = nil
	}
	o.stopServiceLocked()
	if o.store.Changed() {
		if err := o.store.Save(); err != nil {
			o.logger.Error("saving config", "error", err)
		}
	}
}

// configNumberLocked reads the persisted accessory configuration number,
// zero when absent or unavailable.
func (o *Orchestrator) configNumberLocked() uint16 {
	if o.kv == nil {
		return 0
	}
	cn, err := o.kv.ConfigNumber(o.runCtx)
	if err != nil {
		if !errors.Is(err, kvstore.ErrKeyNotFound) {
			o.logger.Error("reading configuration number", "error", err)
		}
		return 0
	}
	return cn
}

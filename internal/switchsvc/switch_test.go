package switchsvc

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/hw"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
)

// fakeOutput records SetState calls.
type fakeOutput struct {
	mu      sync.Mutex
	state   bool
	sources []string
	err     error
}

func (o *fakeOutput) ID() int { return 1 }

func (o *fakeOutput) GetState() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *fakeOutput) SetState(on bool, source string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.state = on
	o.sources = append(o.sources, source)
	return nil
}

// instantScheduler runs deferred actions immediately.
type instantScheduler struct{}

func (instantScheduler) AfterFunc(_ time.Duration, f func()) (cancel func()) {
	f()
	return func() {}
}

// holdScheduler arms timers without firing them.
type holdScheduler struct {
	mu     sync.Mutex
	armed  int
	cancel int
}

func (s *holdScheduler) AfterFunc(time.Duration, func()) (cancel func()) {
	s.mu.Lock()
	s.armed++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.cancel++
		s.mu.Unlock()
	}
}

func newSwitch(cfg *config.SwitchConfig, in component.Input, out component.Output) *Switch {
	return New(Options{ID: cfg.ID, Config: cfg, Input: in, Output: out})
}

func TestVariantSelection(t *testing.T) {
	tests := []struct {
		svcType  int
		wantType component.Type
		wantHide bool
		wantAID  uint64
		wantCat  hap.Category
	}{
		{config.SvcTypeSwitch, component.TypeSwitch, false, hap.AIDBaseSwitch + 7, hap.CategorySwitches},
		{config.SvcTypeOutlet, component.TypeOutlet, false, hap.AIDBaseOutlet + 7, hap.CategoryOutlets},
		{config.SvcTypeLock, component.TypeLock, false, hap.AIDBaseLock + 7, hap.CategoryLocks},
		{99, component.TypeSwitch, true, hap.AIDBaseSwitch + 7, hap.CategorySwitches},
	}
	for _, tt := range tests {
		cfg := &config.SwitchConfig{ID: 7, SvcType: tt.svcType}
		sw := newSwitch(cfg, nil, &fakeOutput{})
		if sw.Type() != tt.wantType {
			t.Errorf("svc_type %d: type = %d, want %d", tt.svcType, sw.Type(), tt.wantType)
		}
		if sw.Hidden() != tt.wantHide {
			t.Errorf("svc_type %d: hidden = %v, want %v", tt.svcType, sw.Hidden(), tt.wantHide)
		}
		if sw.AID() != tt.wantAID {
			t.Errorf("svc_type %d: AID = %#x, want %#x", tt.svcType, sw.AID(), tt.wantAID)
		}
		if sw.Category() != tt.wantCat {
			t.Errorf("svc_type %d: category = %d, want %d", tt.svcType, sw.Category(), tt.wantCat)
		}
	}
}

func TestInitRequiresOutput(t *testing.T) {
	sw := newSwitch(&config.SwitchConfig{ID: 1}, nil, nil)
	if err := sw.Init(); !errors.Is(err, ErrNoOutput) {
		t.Errorf("Init() error = %v, want ErrNoOutput", err)
	}
}

func TestInitialStatePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy int
		last   bool
		input  bool
		want   bool
	}{
		{name: "off", policy: config.InitialStateOff, last: true, want: false},
		{name: "on", policy: config.InitialStateOn, want: true},
		{name: "last restores true", policy: config.InitialStateLast, last: true, want: true},
		{name: "last restores false", policy: config.InitialStateLast, last: false, want: false},
		{name: "input follows level", policy: config.InitialStateInput, input: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := component.NewSimInput(1)
			in.SetState(tt.input)
			cfg := &config.SwitchConfig{ID: 1, InitialState: tt.policy, State: tt.last}
			out := &fakeOutput{}
			sw := newSwitch(cfg, in, out)
			if err := sw.Init(); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if out.GetState() != tt.want {
				t.Errorf("state after init = %v, want %v", out.GetState(), tt.want)
			}
			if cfg.State != tt.want {
				t.Errorf("persisted state = %v, want %v", cfg.State, tt.want)
			}
		})
	}
}

func TestInputModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  int
		drive func(in *component.SimInput)
		want  bool
	}{
		{
			name:  "momentary toggles on single press",
			mode:  config.InModeMomentary,
			drive: func(in *component.SimInput) { in.Single() },
			want:  true,
		},
		{
			name:  "momentary ignores level changes",
			mode:  config.InModeMomentary,
			drive: func(in *component.SimInput) { in.SetState(true) },
			want:  false,
		},
		{
			name:  "follow tracks level",
			mode:  config.InModeFollow,
			drive: func(in *component.SimInput) { in.SetState(true) },
			want:  true,
		},
		{
			name: "flip toggles on every edge",
			mode: config.InModeFlip,
			drive: func(in *component.SimInput) {
				in.SetState(true)
				in.SetState(false)
			},
			want: false,
		},
		{
			name: "detached drives nothing",
			mode: config.InModeDetached,
			drive: func(in *component.SimInput) {
				in.SetState(true)
				in.Single()
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := component.NewSimInput(1)
			cfg := &config.SwitchConfig{ID: 1, InMode: tt.mode}
			out := &fakeOutput{}
			sw := newSwitch(cfg, in, out)
			if err := sw.Init(); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			tt.drive(in)
			if out.GetState() != tt.want {
				t.Errorf("state = %v, want %v", out.GetState(), tt.want)
			}
		})
	}
}

func TestFlipDoubleEdgeEndsWhereItStarted(t *testing.T) {
	in := component.NewSimInput(1)
	cfg := &config.SwitchConfig{ID: 1, InMode: config.InModeFlip}
	out := &fakeOutput{}
	sw := newSwitch(cfg, in, out)
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	in.SetState(true)
	if !out.GetState() {
		t.Fatal("first edge did not toggle on")
	}
	in.SetState(false)
	if out.GetState() {
		t.Fatal("second edge did not toggle off")
	}
}

func TestSetStateNoOpWhenUnchanged(t *testing.T) {
	cfg := &config.SwitchConfig{ID: 1}
	out := &fakeOutput{}
	sw := newSwitch(cfg, nil, out)
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	calls := 0
	sw.SetStateCallback(func(*Switch, bool, string) { calls++ })

	if err := sw.SetState(false, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if calls != 0 {
		t.Error("no-op SetState fired the state callback")
	}
	if err := sw.SetState(true, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("state callback calls = %d, want 1", calls)
	}
}

func TestSetStatePersistsLastState(t *testing.T) {
	cfg := &config.SwitchConfig{ID: 1}
	sw := newSwitch(cfg, nil, &fakeOutput{})
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	persisted := 0
	sw.SetPersistCallback(func() { persisted++ })

	if err := sw.SetState(true, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if !cfg.State {
		t.Error("config state not updated")
	}
	if persisted != 1 {
		t.Errorf("persist callback calls = %d, want 1", persisted)
	}
}

func TestAutoOff(t *testing.T) {
	cfg := &config.SwitchConfig{ID: 1, AutoOff: true, AutoOffDelay: 0.5}
	out := &fakeOutput{}
	sw := New(Options{ID: 1, Config: cfg, Output: out, Scheduler: instantScheduler{}})
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if err := sw.SetState(true, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	// The instant scheduler fires the auto-off immediately.
	if out.GetState() {
		t.Error("auto-off did not revert the output")
	}
	out.mu.Lock()
	last := out.sources[len(out.sources)-1]
	out.mu.Unlock()
	if last != "auto_off" {
		t.Errorf("last source = %q, want auto_off", last)
	}
}

func TestAutoOffCancelledOnManualOff(t *testing.T) {
	sched := &holdScheduler{}
	cfg := &config.SwitchConfig{ID: 1, AutoOff: true, AutoOffDelay: 30}
	sw := New(Options{ID: 1, Config: cfg, Output: &fakeOutput{}, Scheduler: sched})
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if err := sw.SetState(true, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if err := sw.SetState(false, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	sched.mu.Lock()
	defer sched.mu.Unlock()
	if sched.armed != 1 || sched.cancel != 1 {
		t.Errorf("armed/cancelled = %d/%d, want 1/1", sched.armed, sched.cancel)
	}
}

func TestAutoOffConcurrentWithEventPath(t *testing.T) {
	cfg := &config.SwitchConfig{ID: 1, AutoOff: true, AutoOffDelay: 0.0005}
	out := &fakeOutput{}
	sw := New(Options{ID: 1, Config: cfg, Output: out, Scheduler: hw.RealScheduler{}})
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// Real timers fire the auto-off on a scheduler goroutine while the
	// event path keeps switching on.
	deadline := time.Now().Add(50 * time.Millisecond)
	for time.Now().Before(deadline) {
		if err := sw.SetState(true, "btn"); err != nil {
			t.Fatalf("SetState(on) error = %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	if err := sw.SetState(false, "btn"); err != nil {
		t.Fatalf("SetState(off) error = %v", err)
	}
	if sw.GetState() {
		t.Error("switch still on after final off")
	}
}

func TestGetInfo(t *testing.T) {
	cfg := &config.SwitchConfig{ID: 1}
	out := &fakeOutput{}
	sw := newSwitch(cfg, nil, out)
	if err := sw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	info, err := sw.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info != "st 0" {
		t.Errorf("GetInfo() = %q, want %q", info, "st 0")
	}

	meter := component.NewSimPowerMeter(1)
	meter.SetPowerW(12.34)
	sw2 := New(Options{ID: 1, Config: cfg, Output: out, Meter: meter})
	if err := sw2.SetState(true, "test"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	info, err = sw2.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info != "st 1, 12.3W" {
		t.Errorf("GetInfo() = %q, want %q", info, "st 1, 12.3W")
	}
}

func TestStateless(t *testing.T) {
	in := component.NewSimInput(3)
	cfg := &config.StatelessSwitchConfig{ID: 3, Name: "Input 3"}
	ssw := NewStateless(3, in, cfg)
	if err := ssw.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if got := ssw.AID(); got != hap.AIDBaseStatelessSwitch+3 {
		t.Errorf("AID = %#x, want %#x", got, hap.AIDBaseStatelessSwitch+3)
	}
	if got := ssw.Type(); got != component.TypeStatelessSwitch {
		t.Errorf("type = %d, want %d", got, component.TypeStatelessSwitch)
	}

	info, err := ssw.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info != "no events" {
		t.Errorf("GetInfo() = %q, want %q", info, "no events")
	}

	in.Single()
	in.Long()
	in.SetState(true) // level changes are not press events

	info, err = ssw.GetInfo()
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info != "last long, n 2" {
		t.Errorf("GetInfo() = %q, want %q", info, "last long, n 2")
	}
}

func TestStatelessRequiresInput(t *testing.T) {
	ssw := NewStateless(1, nil, &config.StatelessSwitchConfig{ID: 1})
	if err := ssw.Init(); !errors.Is(err, ErrNoInput) {
		t.Errorf("Init() error = %v, want ErrNoInput", err)
	}
}

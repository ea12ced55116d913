package component

import (
	"sync"
	"testing"

	"github.com/nerrad567/relay-core/internal/hw"
)

func TestSimInputEvents(t *testing.T) {
	in := NewSimInput(1)

	var mu sync.Mutex
	var events []Event
	in.AddHandler(func(ev Event, _ bool) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	in.SetState(true)
	in.SetState(true) // no change, no event
	in.Single()
	in.Long()
	in.Reset()
	in.SetState(false)

	want := []Event{EventChange, EventSingle, EventLong, EventReset, EventChange}
	mu.Lock()
	defer mu.Unlock()
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestSimInputClearHandlers(t *testing.T) {
	in := NewSimInput(1)
	fired := 0
	in.AddHandler(func(Event, bool) { fired++ })

	in.Single()
	in.ClearHandlers()
	in.Single()

	if fired != 1 {
		t.Errorf("handler fired %d times, want 1", fired)
	}
}

func TestPinOutputLevels(t *testing.T) {
	tests := []struct {
		name      string
		activeLow bool
		on        bool
		wantLevel bool
	}{
		{"active high on", false, true, true},
		{"active high off", false, false, false},
		{"active low on", true, true, false},
		{"active low off", true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpio := hw.NewSimGPIO()
			out := NewPinOutput(1, 4, tt.activeLow, gpio)
			if err := out.SetState(tt.on, "test"); err != nil {
				t.Fatalf("SetState() error = %v", err)
			}
			if out.GetState() != tt.on {
				t.Errorf("GetState() = %v, want %v", out.GetState(), tt.on)
			}
			if gpio.Level(4) != tt.wantLevel {
				t.Errorf("pin level = %v, want %v", gpio.Level(4), tt.wantLevel)
			}
		})
	}
}

// captureLogger records the argument lists of every log call.
type captureLogger struct {
	mu      sync.Mutex
	entries [][]any
}

func (l *captureLogger) record(args []any) {
	l.mu.Lock()
	l.entries = append(l.entries, args)
	l.mu.Unlock()
}

func (l *captureLogger) Debug(_ string, args ...any) { l.record(args) }
func (l *captureLogger) Info(_ string, args ...any)  { l.record(args) }
func (l *captureLogger) Warn(_ string, args ...any)  { l.record(args) }
func (l *captureLogger) Error(_ string, args ...any) { l.record(args) }

func (l *captureLogger) sawValue(want any) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		for _, a := range entry {
			if a == want {
				return true
			}
		}
	}
	return false
}

func TestPinOutputLogsSource(t *testing.T) {
	gpio := hw.NewSimGPIO()
	log := &captureLogger{}
	out := NewPinOutput(1, 4, false, gpio)
	out.SetLogger(log)

	if err := out.SetState(false, "OVH"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if !log.sawValue("OVH") {
		t.Error(`reason tag "OVH" not logged by the output`)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{EventChange, "change"},
		{EventSingle, "single"},
		{EventLong, "long"},
		{EventReset, "reset"},
		{Event(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("Event(%d).String() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

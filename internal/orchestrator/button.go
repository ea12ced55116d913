package orchestrator

import (
	"time"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/switchsvc"
)

// resetDelay is how long the reset blink is shown before the reset action
// actually runs.
const resetDelay = 600 * time.Millisecond

// handleButtonEvent routes user button events. Level changes only refresh
// the LED (a held button shows solid); a single press cycles the switches;
// a long hold or a recognised reset sequence triggers the wifi reset.
func (o *Orchestrator) handleButtonEvent(ev component.Event, _ bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch ev {
	case component.EventChange:
		o.checkLEDLocked()
	case component.EventSingle:
		o.cycleSwitchesLocked()
	case component.EventLong, component.EventReset:
		o.startResetLocked()
	}
}

// cycleSwitchesLocked advances the switches through their combined state
// space. The switch states are packed into an integer in registration
// order, the integer is incremented and the bits are written back: one
// press walks two switches through off/off, on/off, off/on, on/on and
// wraps around.
func (o *Orchestrator) cycleSwitchesLocked() {
	var sws []*switchsvc.Switch
	state := 0
	for _, c := range o.reg.Components() {
		sw, ok := c.(*switchsvc.Switch)
		if !ok {
			continue
		}
		if sw.GetState() {
			state |= 1 << len(sws)
		}
		sws = append(sws, sw)
	}
	if len(sws) == 0 {
		return
	}

	state++
	for i, sw := range sws {
		on := state&(1<<i) != 0
		if err := sw.SetState(on, "btn"); err != nil {
			o.logger.Error("button toggle failed", "id", sw.ID(), "error", err)
		}
	}
}

// startResetLocked begins the wifi reset sequence: immediate fast blink
// for feedback, the actual reset 600 ms later so the blink is visible.
// The LED pin is captured now; the deferred action trusts it.
func (o *Orchestrator) startResetLocked() {
	o.logger.Warn("reset sequence detected")

	pin := o.store.Config().Device.LEDPin
	if pin >= 0 {
		o.gpio.Blink(pin, 100, 100)
	}

	if o.cancelReset != nil {
		o.cancelReset()
	}
	o.cancelReset = o.sched.AfterFunc(resetDelay, func() {
		o.performReset(pin)
	})
}

// performReset runs on the scheduler once the reset delay elapses: wifi
// station off, provisioning access point on, config saved, LED handed
// back to the identify pattern.
func (o *Orchestrator) performReset(ledPin int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelReset = nil
	if ledPin >= 0 {
		o.gpio.Blink(ledPin, 0, 0)
	}
	o.identifyCount = 2
	o.logger.Warn("performing wifi reset")

	cfg := o.store.Config()
	cfg.Wifi.STAEnable = false
	cfg.Wifi.APEnable = true
	o.store.MarkChanged()
	if err := o.store.Save(); err != nil {
		o.logger.Error("saving config", "error", err)
	}

	if o.net != nil {
		if err := o.net.Reconfigure(false, true); err != nil {
			o.logger.Error("reconfiguring network", "error", err)
		}
	}

	o.checkLEDLocked()
}

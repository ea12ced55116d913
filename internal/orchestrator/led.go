package orchestrator

import (
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/hw"
)

// ledPattern is a blink cadence in milliseconds. An onMs of 1 with offMs 0
// means solid on; onMs 0 releases the pin.
type ledPattern struct {
	onMs, offMs int
}

// Status LED patterns, one per device condition.
var (
	ledIdentify     = ledPattern{onMs: 100, offMs: 100}
	ledButtonHeld   = ledPattern{onMs: 1}
	ledWifiPending  = ledPattern{onMs: 200, offMs: 200}
	ledUpdating     = ledPattern{onMs: 250, offMs: 250}
	ledNotRunning   = ledPattern{onMs: 25, offMs: 875}
	ledProvisioning = ledPattern{onMs: 875, offMs: 25}
	ledUnpaired     = ledPattern{onMs: 500, offMs: 500}
	ledOff          = ledPattern{}
)

// checkLEDLocked recomputes the status LED pattern from current device
// conditions, highest priority first, and reprograms the pin only when the
// pattern changed. Identify rides on the refresh cadence: each evaluation
// consumes one count.
func (o *Orchestrator) checkLEDLocked() {
	cfg := o.store.Config()
	pin := cfg.Device.LEDPin
	if pin < 0 {
		return
	}

	p := ledOff
	switch {
	case o.identifyCount > 0:
		p = ledIdentify
		o.identifyCount--
	case o.btn != nil && o.btn.GetState():
		p = ledButtonHeld
	case o.net != nil && o.wifiPending():
		p = ledWifiPending
	case o.flags&FlagUpdate != 0:
		p = ledUpdating
	case o.engine.State() != hap.StateRunning:
		p = ledNotRunning
	case cfg.Wifi.APEnable:
		p = ledProvisioning
	case !o.engine.IsPaired():
		p = ledUnpaired
	}

	o.applyLEDLocked(pin, cfg.Device.LEDActiveLow, p)
}

// wifiPending reports whether the station is between "configured" and
// "usable": associating, or associated without an address yet.
func (o *Orchestrator) wifiPending() bool {
	st := o.net.Status()
	return st == hw.WifiConnecting || st == hw.WifiConnected
}

// applyLEDLocked programs the pin for a pattern. Solid on is always
// reprogrammed because the reset sequence writes the pin directly, behind
// the pattern cache.
func (o *Orchestrator) applyLEDLocked(pin int, activeLow bool, p ledPattern) {
	switch {
	case p.onMs == 0:
		// LED off: release the pin entirely.
		o.gpio.SetMode(pin, hw.ModeInput)
	case p.onMs == 1:
		o.led = ledOff
		o.gpio.Blink(pin, 0, 0)
		o.gpio.SetupOutput(pin, !activeLow)
	default:
		o.gpio.SetMode(pin, hw.ModeOutput)
		if p != o.led {
			if activeLow {
				o.gpio.Blink(pin, p.offMs, p.onMs)
			} else {
				o.gpio.Blink(pin, p.onMs, p.offMs)
			}
			o.led = p
		}
	}
}

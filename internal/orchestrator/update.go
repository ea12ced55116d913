package orchestrator

import "github.com/nerrad567/relay-core/internal/hap"

// appName identifies this firmware. Update images built for anything else
// are refused outright.
const appName = "relay-core"

// UpdateDecision tells the firmware updater how to proceed with a pending
// update.
type UpdateDecision int

const (
	// UpdateProceed: the engine is idle, flashing may begin.
	UpdateProceed UpdateDecision = iota
	// UpdateWait: the engine is still draining sessions; retry shortly.
	UpdateWait
	// UpdateReject: the image is not for this firmware.
	UpdateReject
)

// HandleUpdateBegin gates a firmware update. An image for a different app
// is rejected. Otherwise the update flag keeps the service from restarting
// underneath the updater, and a running engine is stopped first so
// controllers see a clean close before the device goes away.
func (o *Orchestrator) HandleUpdateBegin(app string) UpdateDecision {
	o.mu.Lock()
	defer o.mu.Unlock()

	if app != appName {
		o.logger.Error("rejecting update for foreign app", "app", app)
		return UpdateReject
	}

	o.flags |= FlagUpdate
	if o.engine.State() != hap.StateIdle {
		o.stopServiceLocked()
		return UpdateWait
	}
	o.logger.Info("starting firmware update")
	return UpdateProceed
}

// HandleUpdateResult reports the outcome of a firmware update. On failure
// the update flag is cleared so normal service resumes on the next tick;
// on success the flag stays set, a reboot into the new firmware follows.
func (o *Orchestrator) HandleUpdateResult(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.logger.Error("firmware update failed", "error", err)
		o.flags &^= FlagUpdate
		return
	}
	o.logger.Info("firmware update finished, reboot pending")
}

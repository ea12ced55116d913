package orchestrator

// checkOverheatLocked is the overheat interlock. At or above the trip
// threshold the service stops and every output is forced off in the same
// pass; the flag releases only once the temperature has fallen to the
// lower threshold, so the service does not flap around the trip point.
func (o *Orchestrator) checkOverheatLocked(temp float64) {
	device := o.store.Config().Device

	if o.flags&FlagOverheat == 0 {
		if temp < float64(device.OverheatOn) {
			return
		}
		o.logger.Error("device overheated", "temp", temp, "threshold", device.OverheatOn)
		o.flags |= FlagOverheat
		o.stopServiceLocked()
		for _, out := range o.reg.Outputs() {
			if err := out.SetState(false, "OVH"); err != nil {
				o.logger.Error("forcing output off", "id", out.ID(), "error", err)
			}
		}
		return
	}

	if temp <= float64(device.OverheatOff) {
		o.logger.Info("device cooled down", "temp", temp, "threshold", device.OverheatOff)
		o.flags &^= FlagOverheat
	}
}

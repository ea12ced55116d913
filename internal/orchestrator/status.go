package orchestrator

import (
	"fmt"
	"strings"
)

// reportStatusLocked emits the aggregated status line and flushes the
// periodic telemetry samples. Line format:
//
//	Up <s>, HAP <pending>/<active>/<max> ns <sessions>, RAM: <free>/<total>; st <temp>; <type>.<id>: <info>; ...
func (o *Orchestrator) reportStatusLocked(temp float64, tempOK bool) {
	stats := o.sys.Stats()
	ss := o.engine.StreamStats()
	ns := 0
	o.engine.EnumerateSessions(func() { ns++ })

	var b strings.Builder
	fmt.Fprintf(&b, "Up %.2f, HAP %d/%d/%d ns %d, RAM: %d/%d; st %d",
		stats.Uptime.Seconds(),
		ss.Pending, ss.Active, ss.Max, ns,
		stats.FreeRAM, stats.TotalRAM,
		int(temp),
	)
	for _, c := range o.reg.Components() {
		info, err := c.GetInfo()
		if err != nil {
			info = err.Error()
		}
		fmt.Fprintf(&b, "; %d.%d: %s", int(c.Type()), c.ID(), info)
	}
	line := b.String()

	o.logger.Info(line)
	if o.sink != nil {
		if err := o.sink.PublishStatus(line); err != nil {
			o.logger.Debug("publishing status", "error", err)
		}
	}

	if o.tele != nil {
		if tempOK {
			o.tele.RecordTemperature(temp)
		}
		for _, m := range o.reg.Meters() {
			if watts, err := m.GetPowerW(); err == nil {
				o.tele.RecordSwitchPower(m.ID(), watts)
			}
		}
	}
}

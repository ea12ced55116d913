package orchestrator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/relay-core/internal/infrastructure/config"
)

// currentCfgVersion is the configuration schema version this build writes.
const currentCfgVersion = 3

// migrateConfigLocked upgrades the device configuration in place, one
// version at a time. Versions only ever increase; running on an already
// current configuration changes nothing. Returns true when anything was
// modified and should be persisted.
func (o *Orchestrator) migrateConfigLocked() bool {
	d := &o.store.Config().Device
	changed := false

	if d.CfgVersion == 0 {
		o.logger.Info("migrating config", "from", 0, "to", 1)
		// The old "remember state across reboot" flag became an
		// initial-state policy.
		for i := range d.Switches {
			if d.Switches[i].PersistState {
				d.Switches[i].InitialState = config.InitialStateLast
			}
		}
		d.CfgVersion = 1
		changed = true
	}

	if d.CfgVersion == 1 {
		o.logger.Info("migrating config", "from", 1, "to", 2)
		// Multi-switch devices that paired before the bridge topology
		// existed keep the old single-accessory layout until they re-pair.
		// Detached inputs never existed in that layout.
		if len(d.Switches) > 1 && o.engine.IsPaired() && !anyDetached(d.Switches) {
			d.LegacyHAPLayout = true
		}
		d.CfgVersion = 2
		changed = true
	}

	if d.CfgVersion == 2 {
		o.logger.Info("migrating config", "from", 2, "to", 3)
		// The factory identifier doubled as the display name. Split them:
		// keep the old value for the user-facing fields and regenerate the
		// identifier as a unique value.
		if d.Name == "" {
			d.Name = d.ID
		}
		if d.Hostname == "" {
			d.Hostname = d.ID
		}
		d.ID = newDeviceID()
		d.CfgVersion = currentCfgVersion
		changed = true
	}

	return changed
}

// anyDetached reports whether any slot uses detached input mode.
func anyDetached(switches []config.SwitchConfig) bool {
	for _, sw := range switches {
		if sw.InMode == config.InModeDetached {
			return true
		}
	}
	return false
}

// newDeviceID derives a fresh unique device identifier.
func newDeviceID() string {
	id := uuid.New()
	return fmt.Sprintf("relay-%x", id[:6])
}

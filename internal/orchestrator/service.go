package orchestrator

import (
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/switchsvc"
)

// StartService attempts to bring the accessory service up. Returns false
// when a service flag or missing provisioning blocks the start; true when
// the engine is running or already transitioning. quiet suppresses the
// routine "not starting" logs from the housekeeping tick.
func (o *Orchestrator) StartService(quiet bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.startServiceLocked(quiet)
}

func (o *Orchestrator) startServiceLocked(quiet bool) bool {
	if o.flags != 0 {
		if !quiet {
			o.logger.Info("not starting service", "flags", o.flags.String())
		}
		return false
	}
	if o.engine.State() != hap.StateIdle {
		return true
	}

	// Accessories are built lazily, at most once per engine generation.
	if len(o.accs) == 0 {
		o.buildAccessoriesLocked()
	}

	if !o.provisioned() {
		if !quiet {
			o.logger.Info("not starting service: not provisioned")
		}
		return false
	}

	cn := o.configNumberLocked()
	if len(o.accs) == 1 {
		o.logger.Info("starting accessory server", "cn", cn)
		if err := o.engine.Start(o.accs[0]); err != nil {
			o.logger.Error("starting accessory server", "error", err)
			return false
		}
		return true
	}

	if o.bridged == nil {
		// Ordered accessory table terminated by a nil sentinel, as the
		// engine requires.
		o.bridged = make([]*hap.Accessory, 0, len(o.accs))
		o.bridged = append(o.bridged, o.accs[1:]...)
		o.bridged = append(o.bridged, nil)
	}
	o.logger.Info("starting accessory server", "cn", cn, "bridged", len(o.accs)-1)
	if err := o.engine.StartBridge(o.accs[0], o.bridged, false); err != nil {
		o.logger.Error("starting accessory server", "error", err)
		return false
	}
	return true
}

// StopService requests an asynchronous engine stop. Component teardown
// follows once the engine reports idle.
func (o *Orchestrator) StopService() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopServiceLocked()
}

func (o *Orchestrator) stopServiceLocked() {
	if o.engine.State() == hap.StateIdle {
		return
	}
	o.logger.Info("stopping accessory server")
	o.engine.Stop()
}

// RestartService stops the service, bumps the configuration number so
// controllers re-read the topology, and drops the legacy layout. The
// housekeeping tick brings the service back up once the engine is idle.
func (o *Orchestrator) RestartService() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restartServiceLocked()
}

func (o *Orchestrator) restartServiceLocked() {
	o.logger.Info("restarting service")
	o.stopServiceLocked()
	if o.kv != nil {
		cn, err := o.kv.IncrementConfigNumber(o.runCtx)
		if err != nil {
			o.logger.Error("incrementing configuration number", "error", err)
		} else {
			o.logger.Debug("configuration number", "cn", cn)
		}
	}
	o.disableLegacyLayoutLocked()
}

// disableLegacyLayoutLocked clears the legacy single-accessory layout flag
// and persists the change.
func (o *Orchestrator) disableLegacyLayoutLocked() {
	cfg := o.store.Config()
	if !cfg.Device.LegacyHAPLayout {
		return
	}
	o.logger.Info("disabling legacy accessory layout")
	cfg.Device.LegacyHAPLayout = false
	o.store.MarkChanged()
	if err := o.store.Save(); err != nil {
		o.logger.Error("saving config", "error", err)
	}
}

// teardownComponentsLocked destroys the accessory topology and exported
// components. Only safe once the engine is idle: sessions hold references
// into the component registry until then.
func (o *Orchestrator) teardownComponentsLocked() {
	if o.engine.State() != hap.StateIdle {
		return
	}
	if len(o.accs) == 0 {
		return
	}
	o.logger.Info("tearing down accessories")
	o.accs = nil
	o.bridged = nil
	o.reg.ClearComponents()
	// The dead components' input subscriptions go with them; the rebuild
	// re-registers its own.
	for _, in := range o.reg.Inputs() {
		in.ClearHandlers()
	}
}

// buildAccessoriesLocked constructs the exported accessory topology from
// the current configuration: a primary accessory plus one bridged
// accessory per visible switch and per detached input.
func (o *Orchestrator) buildAccessoriesLocked() {
	cfg := o.store.Config()
	o.logger.Info("creating accessories",
		"switches", len(cfg.Device.Switches),
		"legacy_layout", cfg.Device.LegacyHAPLayout,
	)

	pri := hap.NewAccessory(hap.AIDPrimary, hap.CategoryBridge, cfg.Device.Name, o.AccessoryIdentify)
	o.accs = []*hap.Accessory{pri}
	o.bridged = nil

	for i := range cfg.Device.Switches {
		o.createSwitchLocked(&cfg.Device.Switches[i], cfg.Device.LegacyHAPLayout)
	}

	o.reg.Freeze()
}

// createSwitchLocked builds one switch slot and, in detached input mode,
// its companion stateless switch. A slot that fails to initialise is
// logged and skipped; the rest of the device keeps working.
func (o *Orchestrator) createSwitchLocked(swCfg *config.SwitchConfig, toPrimary bool) {
	in, _ := o.reg.FindInput(swCfg.ID)
	out, _ := o.reg.FindOutput(swCfg.ID)
	meter, _ := o.reg.FindPowerMeter(swCfg.ID)

	sw := switchsvc.New(switchsvc.Options{
		ID:        swCfg.ID,
		Config:    swCfg,
		Input:     in,
		Output:    out,
		Meter:     meter,
		Scheduler: lockedScheduler{o},
	})
	sw.SetLogger(o.logger)
	sw.SetStateCallback(o.handleSwitchState)
	sw.SetPersistCallback(o.store.MarkChanged)

	if err := sw.Init(); err != nil {
		o.logger.Error("error creating switch", "id", swCfg.ID, "error", err)
	} else if err := o.reg.AddComponent(sw); err != nil {
		o.logger.Error("error registering switch", "id", swCfg.ID, "error", err)
	} else {
		pri := o.accs[0]
		switch {
		case toPrimary:
			// Legacy layout: the switch service lives on the primary
			// accessory itself. With several switches this stacks several
			// services on it, which is what legacy pairings expect.
			sw.SetPrimary(true)
			pri.SetCategory(sw.Category())
			pri.AddService(sw)
		case sw.Hidden():
			// Kept in the registry for ownership and button cycling,
			// never exported.
		default:
			acc := hap.NewAccessory(sw.AID(), hap.CategoryBridgedAccessory, sw.Name(), o.AccessoryIdentify)
			acc.AddService(sw)
			o.accs = append(o.accs, acc)
		}
	}

	if swCfg.InMode == config.InModeDetached {
		o.createStatelessLocked(swCfg.ID)
	}
}

// createStatelessLocked exports a detached input as a stateless switch
// accessory.
func (o *Orchestrator) createStatelessLocked(id int) {
	cfg := o.store.Config()
	sswCfg := cfg.StatelessSwitch(id)
	if sswCfg == nil {
		return
	}
	in, err := o.reg.FindInput(id)
	if err != nil {
		return
	}

	ssw := switchsvc.NewStateless(id, in, sswCfg)
	ssw.SetLogger(o.logger)
	if err := ssw.Init(); err != nil {
		o.logger.Error("error creating stateless switch", "id", id, "error", err)
		return
	}
	if err := o.reg.AddComponent(ssw); err != nil {
		o.logger.Error("error registering stateless switch", "id", id, "error", err)
		return
	}

	acc := hap.NewAccessory(ssw.AID(), hap.CategoryBridgedAccessory, sswCfg.Name, o.AccessoryIdentify)
	acc.AddService(ssw)
	o.accs = append(o.accs, acc)
}

// handleSwitchState runs on the switch's own call path and must not take
// the orchestrator mutex; it only fans the change out to the sinks.
func (o *Orchestrator) handleSwitchState(sw *switchsvc.Switch, on bool, source string) {
	if o.sink != nil {
		if err := o.sink.PublishSwitchState(sw.ID(), on); err != nil {
			o.logger.Debug("publishing switch state", "id", sw.ID(), "error", err)
		}
	}
	if o.tele != nil {
		o.tele.RecordSwitchState(sw.ID(), on, source)
	}
}

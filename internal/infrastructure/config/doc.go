// Package config provides configuration loading and persistence for Relay Core.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. Unlike a typical service config, the device section is live
// state: the boot-time configuration migrator, the reset sequence and
// switch state persistence all write it back through a Store.
//
// # Usage
//
//	store, err := config.Open("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg := store.Config()
//
//	cfg.Device.CfgVersion = 1
//	store.MarkChanged()
//	if err := store.Save(); err != nil {
//	    return err
//	}
package config

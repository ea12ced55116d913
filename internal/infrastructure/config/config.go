package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Relay Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
//
// The Device section is mutable at runtime (configuration migrations, the
// reset sequence and layout changes write it back); use a Store to persist it.
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Wifi     WifiConfig     `yaml:"wifi"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DeviceConfig describes the physical device: identity, pins, safety
// thresholds and the per-switch slots. CfgVersion drives the one-way
// configuration migration sequence executed at boot.
type DeviceConfig struct {
	// ID is the factory device identifier. Migration v2 regenerates it to a
	// stable unique value and moves the user-visible name to Name.
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Hostname string `yaml:"hostname"`

	// CfgVersion is the persisted configuration schema version.
	// Migrations run strictly in increasing order and never decrease it.
	CfgVersion int `yaml:"cfg_version"`

	// LegacyHAPLayout preserves the pre-bridge accessory layout for devices
	// that paired before the bridge topology existed. Set by migration v1,
	// cleared on any structural change.
	LegacyHAPLayout bool `yaml:"legacy_hap_layout"`

	// Overheat thresholds in degrees Celsius. OverheatOff must be strictly
	// below OverheatOn to provide hysteresis.
	OverheatOn  int `yaml:"overheat_on"`
	OverheatOff int `yaml:"overheat_off"`

	// Status LED pin. -1 disables the LED.
	LEDPin       int  `yaml:"led_pin"`
	LEDActiveLow bool `yaml:"led_active_low"`

	// User button pin. -1 disables the button.
	ButtonPin       int  `yaml:"button_pin"`
	ButtonActiveLow bool `yaml:"button_active_low"`

	Switches []SwitchConfig `yaml:"switches"`

	StatelessSwitches []StatelessSwitchConfig `yaml:"stateless_switches"`
}

// Switch service type codes, stored in config.
// Unrecognised codes produce a hidden (unexported) switch.
const (
	SvcTypeSwitch = 0
	SvcTypeOutlet = 1
	SvcTypeLock   = 2
)

// Input mode codes for a switch slot.
const (
	InModeMomentary = 0 // single press toggles
	InModeFollow    = 1 // output tracks input level
	InModeFlip      = 2 // toggle on every edge
	InModeDetached  = 3 // input detached, exported as a stateless switch
)

// Initial output state codes applied when a switch initialises.
const (
	InitialStateOff   = 0
	InitialStateOn    = 1
	InitialStateLast  = 2 // restore persisted state
	InitialStateInput = 3 // match current input level
)

// SwitchConfig is one relay switch slot.
type SwitchConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`

	// Pin assignments for the slot's input and relay output.
	InPin  int `yaml:"in_pin"`
	OutPin int `yaml:"out_pin"`

	// PowerMeter marks slots with per-channel power metering.
	PowerMeter bool `yaml:"power_meter"`

	// SvcType selects the accessory service variant (SvcType* codes).
	SvcType int `yaml:"svc_type"`

	// InMode selects how the bound input drives the output (InMode* codes).
	InMode int `yaml:"in_mode"`

	// InitialState selects the output state applied at Init (InitialState* codes).
	InitialState int `yaml:"initial_state"`

	// PersistState is the legacy "remember state across reboot" flag.
	// Migration v0 converts it into InitialState=InitialStateLast.
	PersistState bool `yaml:"persist_state"`

	// State is the last known output state, written back on every change
	// so InitialStateLast can restore it.
	State bool `yaml:"state"`

	// AutoOff reverts the output to off AutoOffDelay seconds after it
	// was switched on.
	AutoOff      bool    `yaml:"auto_off"`
	AutoOffDelay float64 `yaml:"auto_off_delay"`
}

// StatelessSwitchConfig configures the stateless-switch accessory exported
// for an input in detached mode.
type StatelessSwitchConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

// WifiConfig contains station / access-point provisioning state.
// The reset sequence flips STAEnable off and APEnable on.
type WifiConfig struct {
	STAEnable bool   `yaml:"sta_enable"`
	STASSID   string `yaml:"sta_ssid"`
	STAPass   string `yaml:"sta_pass"`
	APEnable  bool   `yaml:"ap_enable"`
}

// DatabaseConfig contains SQLite database settings for the key-value store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for the status sink.
type MQTTConfig struct {
	Enabled bool             `yaml:"enabled"`
	Broker  MQTTBrokerConfig `yaml:"broker"`
	Auth    MQTTAuthConfig   `yaml:"auth"`
	QoS     int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings for telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RELAYCORE_SECTION_KEY
// For example: RELAYCORE_DATABASE_PATH, RELAYCORE_MQTT_HOST
//
// A missing file is not an error: defaults are returned and firstBoot is
// true, so the caller can create the file on first save.
func Load(path string) (cfg *Config, firstBoot bool, err error) {
	cfg = defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		firstBoot = true
	case err != nil:
		return nil, false, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, false, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("validating config: %w", err)
	}

	return cfg, firstBoot, nil
}

// defaultConfig returns a Config with sensible defaults for a two-channel
// relay device.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ID:          "relay-device",
			OverheatOn:  95,
			OverheatOff: 70,
			LEDPin:      2,
			ButtonPin:   13,
			Switches: []SwitchConfig{
				{ID: 1, Name: "Switch 1", InPin: 12, OutPin: 4},
				{ID: 2, Name: "Switch 2", InPin: 14, OutPin: 5},
			},
			StatelessSwitches: []StatelessSwitchConfig{
				{ID: 1, Name: "Input 1"},
				{ID: 2, Name: "Input 2"},
			},
		},
		Wifi: WifiConfig{
			APEnable: true,
		},
		Database: DatabaseConfig{
			Path:        "./data/relaycore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "relay-core",
			},
			QoS: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RELAYCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELAYCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("RELAYCORE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RELAYCORE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RELAYCORE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("RELAYCORE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Device.OverheatOff >= c.Device.OverheatOn {
		errs = append(errs, "device.overheat_off must be below device.overheat_on")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	seen := make(map[int]bool, len(c.Device.Switches))
	for _, sw := range c.Device.Switches {
		if sw.ID <= 0 {
			errs = append(errs, fmt.Sprintf("switch %q: id must be positive", sw.Name))
		}
		if seen[sw.ID] {
			errs = append(errs, fmt.Sprintf("switch id %d: duplicate", sw.ID))
		}
		seen[sw.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Switch returns the switch slot with the given id, or nil.
func (c *Config) Switch(id int) *SwitchConfig {
	for i := range c.Device.Switches {
		if c.Device.Switches[i].ID == id {
			return &c.Device.Switches[i]
		}
	}
	return nil
}

// StatelessSwitch returns the stateless-switch slot with the given id, or nil.
func (c *Config) StatelessSwitch(id int) *StatelessSwitchConfig {
	for i := range c.Device.StatelessSwitches {
		if c.Device.StatelessSwitches[i].ID == id {
			return &c.Device.StatelessSwitches[i]
		}
	}
	return nil
}

// Command relayd runs the Relay Core device orchestrator against simulated
// hardware: a GPIO bank, network, button and accessory-protocol engine all
// live in memory, while configuration, the key-value store and the
// reporting backends are the real thing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/relay-core/internal/component"
	"github.com/nerrad567/relay-core/internal/hap"
	"github.com/nerrad567/relay-core/internal/hw"
	"github.com/nerrad567/relay-core/internal/infrastructure/config"
	"github.com/nerrad567/relay-core/internal/infrastructure/database"
	"github.com/nerrad567/relay-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/relay-core/internal/infrastructure/logging"
	"github.com/nerrad567/relay-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/relay-core/internal/kvstore"
	"github.com/nerrad567/relay-core/internal/orchestrator"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "relayd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	store, err := config.Open(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := store.Config()

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting relay core",
		"version", version,
		"device", cfg.Device.ID,
		"config", configPath,
		"first_boot", store.FirstBoot(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	kv, err := kvstore.New(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("opening key-value store: %w", err)
	}

	// Reporting backends are optional; the device must run without them.
	var sink orchestrator.StatusSink
	if cfg.MQTT.Enabled {
		mq, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			logger.Error("mqtt unavailable, status publishing disabled", "error", err)
		} else {
			defer mq.Close()
			mq.SetOnDisconnect(func(err error) {
				logger.Warn("mqtt connection lost", "error", err)
			})
			sink = &mqttSink{client: mq, deviceID: cfg.Device.ID}
		}
	}

	var tele orchestrator.Telemetry
	if cfg.InfluxDB.Enabled {
		ic, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			logger.Error("influxdb unavailable, telemetry disabled", "error", err)
		} else {
			defer ic.Close()
			ic.SetOnError(func(err error) {
				logger.Warn("influxdb write failed", "error", err)
			})
			tele = &influxTelemetry{client: ic, deviceID: cfg.Device.ID}
		}
	}

	// Simulated hardware.
	gpio := hw.NewSimGPIO()
	net := hw.NewSimNetwork()
	if cfg.Wifi.STAEnable && cfg.Wifi.STASSID != "" {
		net.SetStatus(hw.WifiGotIP)
	}
	engine := hap.NewSimEngine()
	button := component.NewSimInput(0)
	reg := component.NewRegistry()
	periph := component.NewSimPeripherals(&cfg.Device, gpio)
	periph.SetLogger(logger.With("component", "peripherals"))

	orch, err := orchestrator.New(orchestrator.Options{
		Config:      store,
		Logger:      logger.With("component", "orchestrator"),
		GPIO:        gpio,
		Network:     net,
		SysInfo:     hw.NewRuntimeSysInfo(),
		Scheduler:   hw.RealScheduler{},
		Engine:      engine,
		Registry:    reg,
		Peripherals: periph,
		KV:          kv,
		Button:      button,
		StatusSink:  sink,
		Telemetry:   tele,
	})
	if err != nil {
		return fmt.Errorf("assembling orchestrator: %w", err)
	}

	return orch.Run(ctx)
}

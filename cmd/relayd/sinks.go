package main

import (
	"github.com/nerrad567/relay-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/relay-core/internal/infrastructure/mqtt"
)

// mqttSink publishes the status line and switch state changes over MQTT.
type mqttSink struct {
	client   *mqtt.Client
	deviceID string
}

func (s *mqttSink) PublishStatus(line string) error {
	return s.client.Publish(mqtt.StatusTopic(s.deviceID), []byte(line), false)
}

func (s *mqttSink) PublishSwitchState(switchID int, on bool) error {
	payload := "off"
	if on {
		payload = "on"
	}
	// Retained so late subscribers see the current state.
	return s.client.Publish(mqtt.SwitchTopic(s.deviceID, switchID), []byte(payload), true)
}

// influxTelemetry records orchestrator samples as InfluxDB points.
type influxTelemetry struct {
	client   *influxdb.Client
	deviceID string
}

func (t *influxTelemetry) RecordTemperature(celsius float64) {
	t.client.WriteSystemTemperature(t.deviceID, celsius)
}

func (t *influxTelemetry) RecordSwitchPower(switchID int, watts float64) {
	t.client.WriteSwitchPower(t.deviceID, switchID, watts)
}

func (t *influxTelemetry) RecordSwitchState(switchID int, on bool, source string) {
	t.client.WriteSwitchState(t.deviceID, switchID, on, source)
}

package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSystemTemperature records a system temperature sample.
//
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteSystemTemperature(deviceID string, celsius float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"system_temperature",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"celsius": celsius,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSwitchPower records a power-meter sample for one switch channel.
func (c *Client) WriteSwitchPower(deviceID string, switchID int, powerWatts float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"switch_power",
		map[string]string{
			"device_id": deviceID,
			"switch_id": strconv.Itoa(switchID),
		},
		map[string]interface{}{
			"power_watts": powerWatts,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSwitchState records a switch output state change with its reason tag.
func (c *Client) WriteSwitchState(deviceID string, switchID int, on bool, source string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"switch_state",
		map[string]string{
			"device_id": deviceID,
			"switch_id": strconv.Itoa(switchID),
			"source":    source,
		},
		map[string]interface{}{
			"on": on,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

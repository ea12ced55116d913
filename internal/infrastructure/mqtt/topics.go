package mqtt

import "fmt"

// Topic layout: relaycore/<device-id>/...

// StatusTopic returns the topic for the periodic aggregated status line.
func StatusTopic(deviceID string) string {
	return fmt.Sprintf("relaycore/%s/status", deviceID)
}

// SwitchTopic returns the topic for a switch state announcement.
func SwitchTopic(deviceID string, switchID int) string {
	return fmt.Sprintf("relaycore/%s/switch/%d", deviceID, switchID)
}

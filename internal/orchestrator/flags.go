package orchestrator

import "strings"

// ServiceFlags is the set of conditions pinning the accessory service down.
// While any flag is set the lifecycle controller refuses to start the
// protocol engine.
type ServiceFlags uint8

const (
	// FlagOverheat is set by the overheat interlock and cleared once the
	// temperature falls back below the release threshold.
	FlagOverheat ServiceFlags = 1 << iota

	// FlagUpdate is set while a firmware update is in progress.
	FlagUpdate

	// FlagReboot is set once a reboot has been requested; it is never
	// cleared, the process is expected to exit.
	FlagReboot
)

// String returns a compact label set for logging, "none" when clear.
func (f ServiceFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f&FlagOverheat != 0 {
		parts = append(parts, "overheat")
	}
	if f&FlagUpdate != 0 {
		parts = append(parts, "update")
	}
	if f&FlagReboot != 0 {
		parts = append(parts, "reboot")
	}
	return strings.Join(parts, "|")
}

package hw

import (
	"runtime"
	"time"
)

// SysStats is a point-in-time snapshot of system resources,
// reported in the periodic status line.
type SysStats struct {
	Uptime   time.Duration
	FreeRAM  uint64
	TotalRAM uint64
}

// SysInfo provides uptime and memory introspection.
type SysInfo interface {
	Stats() SysStats
}

// RuntimeSysInfo implements SysInfo from the Go runtime.
type RuntimeSysInfo struct {
	start time.Time
}

// NewRuntimeSysInfo creates a SysInfo anchored at process start.
func NewRuntimeSysInfo() *RuntimeSysInfo {
	return &RuntimeSysInfo{start: time.Now()}
}

// Stats implements SysInfo.
func (s *RuntimeSysInfo) Stats() SysStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SysStats{
		Uptime:   time.Since(s.start),
		FreeRAM:  m.HeapSys - m.HeapAlloc,
		TotalRAM: m.HeapSys,
	}
}

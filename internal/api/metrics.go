package api

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// serverMetrics reports process-level health for the /health endpoint:
// uptime, Go runtime memory stats, and process CPU usage. Grounded on
// the teacher's api.ServerMetrics, trimmed to what /health surfaces
// (the teacher's detailed-memory-stats/system-CPU variants were exposed
// through a separate admin metrics endpoint this domain doesn't have).
type serverMetrics struct {
	startTime time.Time
}

func newServerMetrics() *serverMetrics {
	return &serverMetrics{startTime: time.Now()}
}

func (sm *serverMetrics) uptimeSeconds() float64 {
	return time.Since(sm.startTime).Seconds()
}

func (sm *serverMetrics) memoryMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// cpuPercent reports this process's CPU usage over the last interval,
// falling back to system-wide usage if the process handle can't be
// queried.
func (sm *serverMetrics) cpuPercent() (float64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	pct, err := proc.CPUPercent()
	if err == nil {
		return pct, nil
	}
	pcts, sysErr := cpu.Percent(100*time.Millisecond, false)
	if sysErr != nil || len(pcts) == 0 {
		return 0, err
	}
	return pcts[0], nil
}

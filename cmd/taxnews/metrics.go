// cmd/taxnews/metrics.go
package main

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Metrics holds system and application metrics
type Metrics struct {
	Timestamp         time.Time `json:"timestamp"`
	MemoryUsedMB      float64   `json:"memory_used_mb"`
	MemoryUsedPercent float64   `json:"memory_used_percent"`
	CPUUsagePercent   float64   `json:"cpu_usage_percent"`
	GoroutineCount    int       `json:"goroutine_count"`
	UptimeHours       float64   `json:"uptime_hours"`
}

// collectMetrics gathers system metrics for the metrics endpoint
func collectMetrics() *Metrics {
	m := &Metrics{
		Timestamp:      time.Now(),
		GoroutineCount: runtime.NumGoroutine(),
		UptimeHours:    time.Since(appState.startupTime).Hours(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		m.MemoryUsedMB = float64(vm.Used) / 1024 / 1024
		m.MemoryUsedPercent = vm.UsedPercent
	} else {
		Logger().Debug("memory metrics unavailable: %v", err)
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		m.CPUUsagePercent = percents[0]
	} else if err != nil {
		Logger().Debug("cpu metrics unavailable: %v", err)
	}

	return m
}

package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"shipping/pkg/logger"
)

const systemScrapeInterval = 5 * time.Second

var (
	SystemCPUUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shipping",
			Name:      "system_cpu_usage_percent",
			Help:      "Host CPU usage percentage",
		},
	)

	SystemMemoryUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shipping",
			Name:      "system_memory_usage_bytes",
			Help:      "Host memory in use, bytes",
		},
	)

	ApplicationHeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shipping",
			Name:      "application_heap_alloc_bytes",
			Help:      "Go heap allocated by the service, bytes",
		},
	)
)

// StartSystemMetricsCollector снимает показатели хоста, пока жив ctx.
func StartSystemMetricsCollector(ctx context.Context, log logger.Logger) {
	go func() {
		ticker := time.NewTicker(systemScrapeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := collectSystemMetrics(ctx); err != nil {
					log.Debug("system metrics", logger.NewField("error", err))
				}
			}
		}
	}()
}

func collectSystemMetrics(ctx context.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	ApplicationHeapAlloc.Set(float64(m.HeapAlloc))

	cpuPercent, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return err
	}
	if len(cpuPercent) > 0 {
		SystemCPUUsage.Set(cpuPercent[0])
	}

	vmStat, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return err
	}
	SystemMemoryUsage.Set(float64(vmStat.Used))
	return nil
}

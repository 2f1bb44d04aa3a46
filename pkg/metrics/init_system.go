package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBatchMetrics() {
	r.BatchJobsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyin_batch_jobs_total",
			Help: "Total number of map files processed by batch runs",
		},
		[]string{"status"},
	)

	r.BatchJobsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_batch_jobs_active",
			Help: "Map files currently being simulated by batch workers",
		},
	)
}

func (r *Registry) initSystemMetrics() {
	r.UptimeSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_uptime_seconds",
			Help: "Time since the process started in seconds",
		},
	)

	r.GoRoutines = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_goroutines",
			Help: "Number of goroutines",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_memory_alloc_bytes",
			Help: "Bytes of allocated heap objects",
		},
	)

	r.MemorySysBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_memory_sys_bytes",
			Help: "Total bytes of memory obtained from the OS",
		},
	)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the routing engine.
//
// Every Record* method is safe to call on a nil *Registry, so components can
// take an optional registry without guarding each call site.
type Registry struct {
	// Planner Metrics
	PlansTotal        *prometheus.CounterVec
	PlanDuration      *prometheus.HistogramVec
	PathsPlanned      prometheus.Histogram
	PrimaryPathCost   prometheus.Gauge
	PathSearchesTotal prometheus.Counter

	// Simulation Metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	RunTurns        prometheus.Histogram
	TurnsTotal      prometheus.Counter
	MovesTotal      *prometheus.CounterVec
	HoldsTotal      *prometheus.CounterVec
	DeadlocksTotal  prometheus.Counter
	AgentsDelivered prometheus.Counter
	AgentsInFlight  prometheus.Gauge
	LastRunTurns    prometheus.Gauge

	// Batch Metrics
	BatchJobsTotal  *prometheus.CounterVec
	BatchJobsActive prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initPlannerMetrics()
	r.initSimulationMetrics()
	r.initBatchMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

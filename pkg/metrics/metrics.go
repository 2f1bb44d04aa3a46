package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run statuses used as the "status" label.
const (
	StatusSuccess  = "success"
	StatusDeadlock = "deadlock"
	StatusError    = "error"
)

var processStart = time.Now()

// RecordPlan records one call of the route planner
func (r *Registry) RecordPlan(strategy string, paths, primaryCost, searches int, duration time.Duration, err error) {
	if r == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.PlansTotal.WithLabelValues(strategy, status).Inc()
	r.PlanDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	r.PathSearchesTotal.Add(float64(searches))
	if err == nil {
		r.PathsPlanned.Observe(float64(paths))
		r.PrimaryPathCost.Set(float64(primaryCost))
	}
}

// RecordTurn records the moves and holds of one committed turn
func (r *Registry) RecordTurn(moves map[string]int, holds map[string]int, delivered, inFlight int) {
	if r == nil {
		return
	}
	r.TurnsTotal.Inc()
	for action, n := range moves {
		r.MovesTotal.WithLabelValues(action).Add(float64(n))
	}
	for reason, n := range holds {
		r.HoldsTotal.WithLabelValues(reason).Add(float64(n))
	}
	r.AgentsDelivered.Add(float64(delivered))
	r.AgentsInFlight.Set(float64(inFlight))
}

// RecordRun records the outcome of a finished simulation
func (r *Registry) RecordRun(status string, turns int, duration time.Duration) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.AgentsInFlight.Set(0)
	switch status {
	case StatusSuccess:
		r.RunTurns.Observe(float64(turns))
		r.LastRunTurns.Set(float64(turns))
	case StatusDeadlock:
		r.DeadlocksTotal.Inc()
	}
}

// RecordBatchJob records one finished batch job
func (r *Registry) RecordBatchJob(status string) {
	if r == nil {
		return
	}
	r.BatchJobsTotal.WithLabelValues(status).Inc()
}

// BatchJobStarted marks a batch worker busy
func (r *Registry) BatchJobStarted() {
	if r == nil {
		return
	}
	r.BatchJobsActive.Inc()
}

// BatchJobFinished marks a batch worker idle
func (r *Registry) BatchJobFinished() {
	if r == nil {
		return
	}
	r.BatchJobsActive.Dec()
}

// UpdateSystemMetrics samples uptime, goroutines and memory
func (r *Registry) UpdateSystemMetrics() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.UptimeSeconds.Set(time.Since(processStart).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// WriteTextfile writes the registry in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.UpdateSystemMetrics()
	return prometheus.WriteToTextfile(path, r.registry)
}

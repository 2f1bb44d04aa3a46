package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSimulationMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyin_runs_total",
			Help: "Total number of simulation runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flyin_run_duration_seconds",
			Help:    "Wall-clock duration of a simulation run in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.RunTurns = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flyin_run_turns",
			Help:    "Number of turns a run took to deliver every agent",
			Buckets: []float64{5, 10, 20, 40, 80, 160, 320},
		},
	)

	r.TurnsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flyin_turns_total",
			Help: "Total number of simulated turns",
		},
	)

	r.MovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyin_moves_total",
			Help: "Total number of agent moves by action",
		},
		[]string{"action"},
	)

	r.HoldsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyin_holds_total",
			Help: "Total number of agent holds by blocking resource",
		},
		[]string{"reason"},
	)

	r.DeadlocksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flyin_deadlocks_total",
			Help: "Total number of runs aborted by a turn without progress",
		},
	)

	r.AgentsDelivered = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flyin_agents_delivered_total",
			Help: "Total number of agents that reached the sink",
		},
	)

	r.AgentsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_agents_in_flight",
			Help: "Agents currently on a connection in the active run",
		},
	)

	r.LastRunTurns = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_last_run_turns",
			Help: "Turn count of the most recently finished run",
		},
	)
}

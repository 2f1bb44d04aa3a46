package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPlannerMetrics() {
	r.PlansTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flyin_plans_total",
			Help: "Total number of route plans computed",
		},
		[]string{"strategy", "status"},
	)

	r.PlanDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flyin_plan_duration_seconds",
			Help:    "Route planning duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"strategy"},
	)

	r.PathsPlanned = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flyin_paths_planned",
			Help:    "Number of distinct routes produced per plan",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	r.PrimaryPathCost = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flyin_primary_path_cost",
			Help: "Movement cost of the most recently planned primary route",
		},
	)

	r.PathSearchesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flyin_path_searches_total",
			Help: "Total number of shortest-path searches run by the planner",
		},
	)
}

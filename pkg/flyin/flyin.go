// Package flyin ties the planner and the scheduler together: it plans routes
// for a parsed map, hands them out to the fleet and runs the simulation, with
// logging, metrics and tracing around each stage.
package flyin

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Prashant-Bharaj/fly-in/pkg/algorithms"
	"github.com/Prashant-Bharaj/fly-in/pkg/config"
	"github.com/Prashant-Bharaj/fly-in/pkg/graph"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
)

var tracer = otel.Tracer("flyin")

// Engine runs maps under one configuration. It holds no per-run state and is
// safe for concurrent use.
type Engine struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the registry runs are recorded in. Nil disables metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = r }
}

// New creates an engine. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{cfg: cfg, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNopLogger()
	}
	return e
}

// Report is the outcome of one simulation.
type Report struct {
	Drones  int
	Plan    *algorithms.Plan
	Routes  []*algorithms.Path // routes handed to the fleet
	Agents  []scheduler.Agent  // initial assignment
	Result  *scheduler.Result  // partial on deadlock
	Elapsed time.Duration
}

// RunID returns the simulation's run id, or "" if it never started.
func (r *Report) RunID() string {
	if r == nil || r.Result == nil {
		return ""
	}
	return r.Result.RunID
}

// Simulate plans and runs m with the default engine for cfg.
func Simulate(ctx context.Context, m *mapfile.Map, cfg *config.Config) (*Report, error) {
	return New(cfg).Simulate(ctx, m)
}

// Plan computes the primary and diverse routes of g.
func (e *Engine) Plan(ctx context.Context, g *graph.Graph) (*algorithms.Plan, error) {
	_, span := tracer.Start(ctx, "flyin.Plan")
	defer span.End()

	opts := e.cfg.PlanOptions()
	strategy := opts.Diverse.Strategy.String()
	started := time.Now()
	plan, err := algorithms.PlanRoutes(g, opts)
	elapsed := time.Since(started)
	if err != nil {
		e.metrics.RecordPlan(strategy, 0, 0, 0, elapsed, err)
		fail(span, err)
		return nil, fmt.Errorf("plan routes: %w", err)
	}

	e.metrics.RecordPlan(strategy, len(plan.Diverse), plan.Primary.Cost(), plan.Searches, elapsed, nil)
	span.SetAttributes(
		attribute.String("strategy", strategy),
		attribute.Int("paths", len(plan.Diverse)),
		attribute.Int("primary_cost", plan.Primary.Cost()),
		attribute.Int("searches", plan.Searches),
	)
	e.logger.Debug("routes planned",
		logging.String("strategy", strategy),
		logging.Int("paths", len(plan.Diverse)),
		logging.String("primary", plan.Primary.Format(g)),
		logging.Latency(elapsed))
	return plan, nil
}

// Simulate plans routes for m, assigns them round-robin to its drones and
// runs the turn scheduler. On a deadlock the report still carries the partial
// result.
func (e *Engine) Simulate(ctx context.Context, m *mapfile.Map) (*Report, error) {
	if m == nil || m.Graph == nil {
		return nil, fmt.Errorf("simulate: no map")
	}
	ctx, span := tracer.Start(ctx, "flyin.Simulate", trace.WithAttributes(
		attribute.Int("drones", m.Drones),
		attribute.Int("zones", m.Graph.NodeCount()),
		attribute.Int("connections", m.Graph.EdgeCount()),
	))
	defer span.End()

	started := time.Now()
	plan, err := e.Plan(ctx, m.Graph)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	report := &Report{
		Drones: m.Drones,
		Plan:   plan,
		Routes: plan.Select(m.Drones, e.cfg.Planner.DiverseThreshold),
	}
	report.Agents = scheduler.AssignRoundRobin(report.Routes, m.Drones)

	opts := e.cfg.SchedulerOptions()
	opts.Logger = e.logger
	opts.Metrics = e.metrics

	_, runSpan := tracer.Start(ctx, "flyin.Run", trace.WithAttributes(
		attribute.Int("routes", len(report.Routes)),
		attribute.String("ordering", opts.Ordering.String()),
		attribute.String("reservation", opts.Reservation.String()),
	))
	report.Result, err = scheduler.RunContext(ctx, m.Graph, report.Agents, opts)
	report.Elapsed = time.Since(started)
	if report.Result != nil {
		runSpan.SetAttributes(
			attribute.String("run_id", report.Result.RunID),
			attribute.Int("turns", report.Result.Turns),
		)
	}
	if err != nil {
		fail(runSpan, err)
		runSpan.End()
		fail(span, err)
		return report, fmt.Errorf("simulate: %w", err)
	}
	runSpan.End()

	span.SetAttributes(attribute.Int("turns", report.Result.Turns))
	return report, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

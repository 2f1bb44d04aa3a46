package flyin_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Prashant-Bharaj/fly-in/pkg/config"
	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
	"github.com/Prashant-Bharaj/fly-in/pkg/telemetry"
)

func load(t *testing.T, name string) *mapfile.Map {
	t.Helper()
	m, err := mapfile.ParseFile(filepath.Join("..", "mapfile", "testdata", name))
	require.NoError(t, err)
	return m
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestSimulate_Linear(t *testing.T) {
	m := load(t, "linear.txt")

	report, err := flyin.Simulate(context.Background(), m, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Drones)
	assert.Len(t, report.Routes, 1, "small fleets fly the primary route")
	assert.Equal(t, 3, report.Result.Turns)
	assert.NotEmpty(t, report.RunID())
	for _, a := range report.Result.Agents {
		assert.Equal(t, scheduler.Arrived, a.State())
	}
}

func TestSimulate_DiverseRoutesShortenLargeFleets(t *testing.T) {
	m := load(t, "fork.txt")

	diverse, err := flyin.Simulate(context.Background(), m, config.Default())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(diverse.Routes), 2)

	cfg := config.Default()
	cfg.Planner.DiverseThreshold = 1000
	single, err := flyin.Simulate(context.Background(), m, cfg)
	require.NoError(t, err)
	require.Len(t, single.Routes, 1)

	assert.Less(t, diverse.Result.Turns, single.Result.Turns)
	assert.GreaterOrEqual(t, diverse.Result.Turns, diverse.Plan.Primary.Cost())
}

func TestSimulate_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	var logs bytes.Buffer
	logger := logging.NewJSONLogger(&logs, logging.InfoLevel)

	engine := flyin.New(config.Default(), flyin.WithMetrics(reg), flyin.WithLogger(logger))
	_, err := engine.Simulate(context.Background(), load(t, "linear.txt"))
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, reg.PlansTotal.WithLabelValues("exclusive-exit", metrics.StatusSuccess)))
	assert.Equal(t, 1.0, counterValue(t, reg.RunsTotal.WithLabelValues(metrics.StatusSuccess)))
	assert.Equal(t, 3.0, counterValue(t, reg.TurnsTotal))
	assert.Contains(t, logs.String(), "simulation finished")
}

func TestSimulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := flyin.Simulate(ctx, load(t, "linear.txt"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Result.Turns)
}

func TestSimulate_NoMap(t *testing.T) {
	_, err := flyin.Simulate(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestSimulate_Spans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := telemetry.Setup(telemetry.Config{Exporter: "stdout", Output: &buf})
	require.NoError(t, err)

	_, err = flyin.Simulate(context.Background(), load(t, "linear.txt"), nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	for _, name := range []string{"flyin.Plan", "flyin.Run", "flyin.Simulate"} {
		assert.Contains(t, buf.String(), `"Name":"`+name+`"`)
	}
}

func TestEngine_Plan(t *testing.T) {
	m := load(t, "detour.txt")

	plan, err := flyin.New(nil).Plan(context.Background(), m.Graph)
	require.NoError(t, err)
	// The priority zone is cheaper than the restricted gate, the blocked wall
	// is never used.
	assert.Equal(t, []string{"base", "fast", "goal"}, plan.Primary.Names(m.Graph))
	for _, p := range plan.Diverse {
		assert.NotContains(t, p.Names(m.Graph), "wall")
	}
}

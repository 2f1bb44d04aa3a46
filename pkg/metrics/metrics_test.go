package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := g.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if r.PlansTotal == nil {
		t.Error("PlansTotal not initialized")
	}
	if r.RunsTotal == nil {
		t.Error("RunsTotal not initialized")
	}
	if r.MovesTotal == nil {
		t.Error("MovesTotal not initialized")
	}
	if r.BatchJobsTotal == nil {
		t.Error("BatchJobsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.RecordPlan("exclusive-exit", 1, 2, 1, time.Millisecond, nil)
	r.RecordTurn(map[string]int{"enter_node": 1}, nil, 1, 0)
	r.RecordRun(StatusSuccess, 3, time.Millisecond)
	r.RecordBatchJob(StatusSuccess)
	r.BatchJobStarted()
	r.BatchJobFinished()
	r.UpdateSystemMetrics()
}

func TestRecordPlan(t *testing.T) {
	r := NewRegistry()

	r.RecordPlan("exclusive-exit", 3, 5, 4, 2*time.Millisecond, nil)
	r.RecordPlan("exclusive-exit", 0, 0, 1, time.Millisecond, errors.New("no path"))

	ok, _ := r.PlansTotal.GetMetricWithLabelValues("exclusive-exit", StatusSuccess)
	failed, _ := r.PlansTotal.GetMetricWithLabelValues("exclusive-exit", StatusError)
	if v := counterValue(t, ok); v != 1 {
		t.Errorf("success plans = %v, want 1", v)
	}
	if v := counterValue(t, failed); v != 1 {
		t.Errorf("failed plans = %v, want 1", v)
	}
	if v := counterValue(t, r.PathSearchesTotal); v != 5 {
		t.Errorf("searches = %v, want 5", v)
	}
	if v := gaugeValue(t, r.PrimaryPathCost); v != 5 {
		t.Errorf("primary cost = %v, want 5 (failed plan must not overwrite)", v)
	}
}

func TestRecordTurn(t *testing.T) {
	r := NewRegistry()

	r.RecordTurn(map[string]int{"enter_node": 2, "enter_edge": 1}, map[string]int{"node_full": 3}, 1, 1)
	r.RecordTurn(map[string]int{"enter_node": 1}, nil, 0, 0)

	enter, _ := r.MovesTotal.GetMetricWithLabelValues("enter_node")
	if v := counterValue(t, enter); v != 3 {
		t.Errorf("enter_node moves = %v, want 3", v)
	}
	full, _ := r.HoldsTotal.GetMetricWithLabelValues("node_full")
	if v := counterValue(t, full); v != 3 {
		t.Errorf("node_full holds = %v, want 3", v)
	}
	if v := counterValue(t, r.TurnsTotal); v != 2 {
		t.Errorf("turns = %v, want 2", v)
	}
	if v := counterValue(t, r.AgentsDelivered); v != 1 {
		t.Errorf("delivered = %v, want 1", v)
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun(StatusSuccess, 7, 10*time.Millisecond)
	r.RecordRun(StatusDeadlock, 2, time.Millisecond)

	if v := counterValue(t, r.DeadlocksTotal); v != 1 {
		t.Errorf("deadlocks = %v, want 1", v)
	}
	if v := gaugeValue(t, r.LastRunTurns); v != 7 {
		t.Errorf("last run turns = %v, want 7", v)
	}

	var metric dto.Metric
	if err := r.RunTurns.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 1 {
		t.Errorf("run turns samples = %v, want 1", metric.Histogram.GetSampleCount())
	}
}

func TestBatchJobGauge(t *testing.T) {
	r := NewRegistry()

	r.BatchJobStarted()
	r.BatchJobStarted()
	r.BatchJobFinished()
	if v := gaugeValue(t, r.BatchJobsActive); v != 1 {
		t.Errorf("active jobs = %v, want 1", v)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordTurn(map[string]int{"enter_node": 1}, nil, 0, 0)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if v := counterValue(t, r.TurnsTotal); v != 1000 {
		t.Errorf("turns = %v, want 1000", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordRun(StatusSuccess, 4, time.Millisecond)

	path := filepath.Join(t.TempDir(), "flyin.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(data)
	for _, want := range []string{"flyin_last_run_turns 4", `flyin_runs_total{status="success"} 1`, "flyin_uptime_seconds"} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()

	metrics, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metrics) == 0 {
		t.Fatal("No metrics registered")
	}

	for _, m := range metrics {
		if !strings.HasPrefix(m.GetName(), "flyin_") {
			t.Errorf("Metric %s does not have flyin_ prefix", m.GetName())
		}
	}
}

func BenchmarkRecordTurn(b *testing.B) {
	r := NewRegistry()
	moves := map[string]int{"enter_node": 3, "enter_edge": 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordTurn(moves, nil, 1, 1)
	}
}

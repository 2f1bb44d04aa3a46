package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
)

func testMap(name string) string {
	return filepath.Join("..", "..", "pkg", "mapfile", "testdata", name)
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func copyTestMap(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(testMap(name))
	require.NoError(t, err)
	dst := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
	return dst
}

func TestRootCommand_Help(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"run", "plan", "batch", "view"} {
		assert.Contains(t, out, name)
	}
}

func TestRootCommand_Version(t *testing.T) {
	prev := version
	t.Cleanup(func() { version = prev })

	SetVersion("1.2.3")
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version is ignored")
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, _, err := execute(t, "fly")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	out, _, err := execute(t, "run", testMap("linear.txt"))
	require.NoError(t, err)
	assert.Equal(t, "D1-relay\nD1-goal D2-relay\nD2-goal\n", out)
}

func TestRun_Color(t *testing.T) {
	// Colors are dropped when the output is not a terminal.
	out, _, err := execute(t, "run", "--color", testMap("linear.txt"))
	require.NoError(t, err)
	assert.Equal(t, "D1-relay\nD1-goal D2-relay\nD2-goal\n", out)
}

func TestRun_Errors(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(broken, []byte("nb_drones: 0\n"), 0o644))

	_, _, err := execute(t, "run", broken)
	assert.ErrorIs(t, err, mapfile.ErrSyntax)

	_, _, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = execute(t, "run")
	assert.Error(t, err, "a map is required")

	_, _, err = execute(t, "run", "--log-level", "loud", testMap("linear.txt"))
	assert.Error(t, err)

	_, _, err = execute(t, "run", "--metrics-out", "metrics.txt", testMap("linear.txt"))
	assert.ErrorContains(t, err, ".prom")
}

func TestRun_LogLevel(t *testing.T) {
	_, stderr, err := execute(t, "run", "--log-level", "debug", testMap("linear.txt"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "routes planned")
	assert.Contains(t, stderr, "simulation finished")

	_, stderr, err = execute(t, "run", testMap("linear.txt"))
	require.NoError(t, err)
	assert.Empty(t, stderr, "default level is warn")
}

func TestRun_Config(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "flyin.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0o644))

	_, stderr, err := execute(t, "run", "--config", cfgPath, testMap("linear.txt"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "simulation finished")

	_, _, err = execute(t, "run", "--config", filepath.Join(t.TempDir(), "none.yaml"), testMap("linear.txt"))
	assert.Error(t, err)
}

func TestRun_MetricsOut(t *testing.T) {
	prom := filepath.Join(t.TempDir(), "flyin.prom")
	_, _, err := execute(t, "run", "--metrics-out", prom, testMap("linear.txt"))
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flyin_turns_total 3")
	assert.Contains(t, string(data), `flyin_runs_total{status="success"} 1`)
}

func TestRun_Trace(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, stderr, err := execute(t, "run", "--trace", testMap("linear.txt"))
	require.NoError(t, err)
	assert.Contains(t, stderr, `"Name": "flyin.Simulate"`)
	assert.Contains(t, stderr, `"Name": "flyin.Plan"`)
}

func TestPlan(t *testing.T) {
	out, _, err := execute(t, "plan", testMap("detour.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "drones: 3")
	assert.Contains(t, out, "* route 1  cost 2")
	assert.Contains(t, out, "base -> fast -> goal")
	assert.NotContains(t, out, "wall")
	assert.Contains(t, out, "1 of ")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	copyTestMap(t, dir, "linear.txt")
	copyTestMap(t, dir, "detour.txt")

	out, _, err := execute(t, "batch", "--workers", "2", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "linear.txt")
	assert.Contains(t, out, "detour.txt")
	assert.Contains(t, out, "2/2 maps succeeded")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.txt"), []byte("hub: x 0 0\n"), 0o644))
	out, _, err = execute(t, "batch", dir)
	assert.ErrorContains(t, err, "1 of 3 maps failed")
	assert.Contains(t, out, "parse_error")
}

func TestBatch_Errors(t *testing.T) {
	_, _, err := execute(t, "batch")
	assert.Error(t, err)

	_, _, err = execute(t, "batch", t.TempDir())
	assert.Error(t, err)

	_, _, err = execute(t, "batch", "--timeout=-1s", testMap("linear.txt"))
	assert.Error(t, err)
}

func TestView_Errors(t *testing.T) {
	_, _, err := execute(t, "view", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchFile(t *testing.T) {
	path := copyTestMap(t, t.TempDir(), "linear.txt")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, logging.NewNopLogger(), func() { calls <- struct{}{} })
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("no initial run")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, "# edited\n"...), 0o644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a run")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

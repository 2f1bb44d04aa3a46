// Package batch simulates many map files concurrently, one independent run
// per file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Prashant-Bharaj/fly-in/pkg/flyin"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/mapfile"
	"github.com/Prashant-Bharaj/fly-in/pkg/metrics"
	"github.com/Prashant-Bharaj/fly-in/pkg/parallel"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
)

// MapExtension is the suffix Expand looks for inside directories.
const MapExtension = ".txt"

// ErrNoMaps is returned when a batch has nothing to run.
var ErrNoMaps = errors.New("no map files")

// Job statuses.
const (
	StatusSuccess    = metrics.StatusSuccess
	StatusDeadlock   = metrics.StatusDeadlock
	StatusError      = metrics.StatusError
	StatusParseError = "parse_error"
	StatusTimeout    = "timeout"
)

// Options configures a batch.
type Options struct {
	Workers int           // <= 0 means one per CPU
	Timeout time.Duration // per map; 0 means none
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Outcome is the result of one map.
type Outcome struct {
	JobID   string
	Path    string
	Status  string
	Drones  int
	Turns   int
	RunID   string
	Report  *flyin.Report // nil when the map did not parse
	Err     error
	Elapsed time.Duration
}

// Summary is the result of a whole batch, outcomes in input order.
type Summary struct {
	BatchID  string
	Outcomes []Outcome
	Elapsed  time.Duration
}

// Count returns how many outcomes have the given status.
func (s *Summary) Count(status string) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any map did not finish successfully.
func (s *Summary) Failed() bool {
	return s.Count(StatusSuccess) != len(s.Outcomes)
}

// Run simulates every map in paths on a worker pool. Individual failures are
// reported in the outcomes; the returned error is only set when the batch
// itself could not run or ctx ended it early.
func Run(ctx context.Context, engine *flyin.Engine, paths []string, opts Options) (*Summary, error) {
	if len(paths) == 0 {
		return nil, ErrNoMaps
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	summary := &Summary{BatchID: uuid.NewString()}
	logger := opts.Logger.With(logging.String("batch_id", summary.BatchID))
	logger.Info("batch started", logging.Int("maps", len(paths)), logging.Int("workers", opts.Workers))
	started := time.Now()

	outcomes, err := parallel.Map(ctx, opts.Workers, paths,
		func(ctx context.Context, _ int, path string) Outcome {
			return runOne(ctx, engine, path, opts, logger)
		},
		parallel.WithLogger(logger))
	summary.Outcomes = outcomes
	summary.Elapsed = time.Since(started)

	// Maps never queued because ctx ended.
	for i := range summary.Outcomes {
		if summary.Outcomes[i].Path == "" {
			summary.Outcomes[i] = Outcome{Path: paths[i], Status: StatusError, Err: ctx.Err()}
		}
	}

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Count(StatusSuccess)),
		logging.Int("deadlocked", summary.Count(StatusDeadlock)),
		logging.Latency(summary.Elapsed))
	if err != nil {
		return summary, fmt.Errorf("batch %s: %w", summary.BatchID, err)
	}
	return summary, nil
}

func runOne(ctx context.Context, engine *flyin.Engine, path string, opts Options, logger logging.Logger) (out Outcome) {
	out = Outcome{JobID: uuid.NewString(), Path: path}
	logger = logger.With(logging.String("job_id", out.JobID), logging.MapFile(path))

	opts.Metrics.BatchJobStarted()
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusError
			out.Err = fmt.Errorf("panic: %v", r)
		}
		out.Elapsed = time.Since(started)
		opts.Metrics.BatchJobFinished()
		opts.Metrics.RecordBatchJob(out.Status)
		if out.Err != nil {
			logger.Warn("map failed", logging.String("status", out.Status), logging.Error(out.Err))
		}
	}()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	m, err := mapfile.ParseFile(path)
	if err != nil {
		out.Status, out.Err = StatusParseError, err
		return out
	}
	out.Drones = m.Drones

	report, err := engine.Simulate(ctx, m)
	out.Report = report
	if report != nil && report.Result != nil {
		out.Turns = report.Result.Turns
		out.RunID = report.Result.RunID
	}
	out.Status, out.Err = classify(err), err
	return out
}

func classify(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case scheduler.IsDeadlock(err):
		return StatusDeadlock
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

// Expand turns command line arguments into map paths: files are kept as
// given, directories contribute their *.txt files in name order.
func Expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), MapExtension) {
				paths = append(paths, filepath.Join(arg, e.Name()))
			}
		}
	}
	if len(paths) == 0 {
		return nil, ErrNoMaps
	}
	return paths, nil
}

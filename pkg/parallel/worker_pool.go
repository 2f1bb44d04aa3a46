// Package parallel runs independent simulations on a fixed pool of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	logger  logging.Logger
	onPanic func(recovered any)
	panics  atomic.Int64
}

var (
	// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrPoolClosed is returned when submitting to a closed pool.
	ErrPoolClosed = errors.New("worker pool closed")
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// PoolOption customizes a WorkerPool.
type PoolOption func(*WorkerPool)

// WithLogger reports recovered task panics to l.
func WithLogger(l logging.Logger) PoolOption {
	return func(wp *WorkerPool) { wp.logger = l }
}

// WithPanicHandler is called with the value of every recovered task panic.
func WithPanicHandler(fn func(recovered any)) PoolOption {
	return func(wp *WorkerPool) { wp.onPanic = fn }
}

// NewWorkerPool creates a new worker pool with specified number of workers.
// A count <= 0 starts one worker per CPU.
func NewWorkerPool(workers int, opts ...PoolOption) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Panics returns how many tasks panicked so far.
func (wp *WorkerPool) Panics() int64 {
	return wp.panics.Load()
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.run(id, task)
	}
}

// run executes one task; a panic is recovered so the worker survives it.
func (wp *WorkerPool) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.panics.Add(1)
			wp.logger.Error("worker task panicked",
				logging.Int("worker", id),
				logging.Any("panic", r))
			if wp.onPanic != nil {
				wp.onPanic(r)
			}
		}
	}()
	task()
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// SubmitContext is Submit that gives up when ctx is done while the queue is
// full.
func (wp *WorkerPool) SubmitContext(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		// Acquire write lock before closing
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete
func (wp *WorkerPool) Wait() {
	wp.Close()
}

// Map runs fn over items on a fresh pool of the given size and returns the
// results in input order. Items not yet queued when ctx is done are skipped
// and Map returns ctx.Err(); results of skipped items are zero values.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, i int, item T) R, opts ...PoolOption) ([]R, error) {
	if workers > len(items) {
		workers = len(items)
	}
	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]R, len(items))
	var submitErr error
	for i, item := range items {
		i, item := i, item
		if err := pool.SubmitContext(ctx, func() {
			results[i] = fn(ctx, i, item)
		}); err != nil {
			submitErr = err
			break
		}
	}
	pool.Wait()
	return results, submitErr
}

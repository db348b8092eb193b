// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package executor provides a bounded worker pool that runs batches of
// independent tasks. Callers submit one batch at a time and block until
// every task has reported, the batch deadline passes, or their context
// is cancelled.
//
// A pool has an explicit lifecycle:
//
//	pool := executor.NewPool()
//	if err := pool.Init(); err != nil {
//	    return err
//	}
//	defer pool.Shutdown(context.Background())
//
//	err := pool.InvokeAll(ctx, tasks)
//
// Run wraps the same sequence for a single scope.
package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sasha-s/go-deadlock"

	"github.com/jeremyhahn/go-blockcipher/pkg/correlation"
	"github.com/jeremyhahn/go-blockcipher/pkg/logging"
	"github.com/jeremyhahn/go-blockcipher/pkg/metrics"
)

// State is the lifecycle state of a Pool.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

type job struct {
	ctx     context.Context
	index   int
	task    Task
	results chan<- error
}

// generation is the set of workers started by one Init call.
type generation struct {
	jobs       chan job
	workers    sync.WaitGroup
	submitters sync.WaitGroup
}

// Pool is a fixed-size worker pool. The zero value is not usable; create
// pools with NewPool or use Shared.
type Pool struct {
	workers            int
	batchSize          int
	timeout            time.Duration
	terminationTimeout time.Duration
	logger             *logging.Logger

	mu    deadlock.Mutex
	state State
	gen   *generation
	live  atomic.Int32
}

// NewPool returns an idle pool. Call Init before submitting work.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers:            DefaultWorkers,
		batchSize:          DefaultBatchSize,
		timeout:            DefaultTimeout,
		terminationTimeout: DefaultTerminationTimeout,
		logger:             logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	sharedOnce sync.Once
	shared     *Pool
)

// Shared returns the process-wide pool. It is created on first use with
// the default settings but is not started.
func Shared() *Pool {
	sharedOnce.Do(func() {
		shared = NewPool()
	})
	return shared
}

// Size returns the configured worker count.
func (p *Pool) Size() int { return p.workers }

// Workers returns the number of live worker goroutines.
func (p *Pool) Workers() int { return int(p.live.Load()) }

// BatchSize returns the maximum number of tasks per batch.
func (p *Pool) BatchSize() int { return p.batchSize }

// Timeout returns the default per-batch timeout.
func (p *Pool) Timeout() time.Duration { return p.timeout }

// State returns the current lifecycle state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Running reports whether the pool accepts batches.
func (p *Pool) Running() bool {
	return p.State() == StateRunning
}

// Init starts the workers. It is a no-op on a running pool, starts a new
// set of workers on a terminated pool, and fails while a shutdown is in
// progress.
func (p *Pool) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateRunning:
		return nil
	case StateShuttingDown:
		return ErrShutdown
	}

	gen := &generation{jobs: make(chan job, p.workers)}
	gen.workers.Add(p.workers)
	p.live.Add(int32(p.workers))
	for i := 0; i < p.workers; i++ {
		go p.work(gen)
	}
	p.gen = gen
	p.setState(StateRunning)
	p.logger.Debug("worker pool started", "workers", p.workers, "batch_size", p.batchSize)
	return nil
}

// Shutdown stops accepting batches, waits for in-flight batches to be
// dispatched, and waits up to the termination timeout for the workers to
// exit. A pool that is not running is left untouched.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateRunning {
		p.mu.Unlock()
		return nil
	}
	gen := p.gen
	p.setState(StateShuttingDown)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		gen.submitters.Wait()
		close(gen.jobs)
		gen.workers.Wait()
		close(done)
	}()

	timer := time.NewTimer(p.terminationTimeout)
	defer timer.Stop()

	var err error
	select {
	case <-done:
	case <-timer.C:
		err = fmt.Errorf("%w: workers still running after %s", ErrTimeout, p.terminationTimeout)
	case <-ctx.Done():
		err = fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}

	p.mu.Lock()
	p.gen = nil
	p.setState(StateTerminated)
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("worker pool terminated uncleanly", "error", err)
		return err
	}
	p.logger.Debug("worker pool terminated")
	return nil
}

// Run initializes the pool, calls fn and shuts the pool down on every
// exit path.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.Init(); err != nil {
		return err
	}
	var result *multierror.Error
	if err := fn(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := p.Shutdown(context.WithoutCancel(ctx)); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// InvokeAll runs tasks with the pool's default timeout.
func (p *Pool) InvokeAll(ctx context.Context, tasks []Task) error {
	return p.InvokeAllTimeout(ctx, tasks, p.timeout)
}

// InvokeAllTimeout submits tasks as one batch and waits for all of them.
// Task failures and recovered panics are aggregated into one error.
// Tasks still queued when the deadline passes are skipped; tasks already
// running are not interrupted beyond the cancellation of their context.
func (p *Pool) InvokeAllTimeout(ctx context.Context, tasks []Task, timeout time.Duration) error {
	if len(tasks) == 0 {
		return nil
	}

	p.mu.Lock()
	switch p.state {
	case StateIdle, StateTerminated:
		p.mu.Unlock()
		return ErrNotInitialized
	case StateShuttingDown:
		p.mu.Unlock()
		return ErrShutdown
	}
	gen := p.gen
	gen.submitters.Add(1)
	p.mu.Unlock()
	defer gen.submitters.Done()

	var (
		batchCtx context.Context
		cancel   context.CancelFunc
	)
	if timeout > 0 {
		batchCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		batchCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	results := make(chan error, len(tasks))

	err := dispatch(batchCtx, gen.jobs, tasks, results)
	if err == nil {
		err = collect(batchCtx, results, len(tasks))
	}

	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case batchCtx.Err() != nil && ctx.Err() != nil:
		status = metrics.StatusError
		err = fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	case batchCtx.Err() != nil:
		status = metrics.StatusTimeout
		err = fmt.Errorf("%w: batch of %d tasks exceeded %s", ErrTimeout, len(tasks), timeout)
	default:
		status = metrics.StatusError
	}

	elapsed := time.Since(start)
	metrics.RecordBatch(status, len(tasks), elapsed.Seconds())
	p.logger.Debug("batch finished",
		"tasks", len(tasks),
		"status", status,
		"duration", elapsed,
		correlation.LogKey, correlation.OperationID(ctx))
	return err
}

func dispatch(ctx context.Context, jobs chan<- job, tasks []Task, results chan<- error) error {
	for i, task := range tasks {
		select {
		case jobs <- job{ctx: ctx, index: i, task: task, results: results}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func collect(ctx context.Context, results <-chan error, n int) error {
	var result *multierror.Error
	for received := 0; received < n; received++ {
		select {
		case err := <-results:
			if err != nil {
				result = multierror.Append(result, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return result.ErrorOrNil()
}

func (p *Pool) work(gen *generation) {
	defer func() {
		p.live.Add(-1)
		gen.workers.Done()
	}()
	for j := range gen.jobs {
		if err := j.ctx.Err(); err != nil {
			j.results <- err
			continue
		}
		j.results <- execute(j)
	}
}

func execute(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d: %w: %v", j.index, ErrTaskPanic, r)
		}
	}()
	if err := j.task(j.ctx); err != nil {
		return fmt.Errorf("task %d: %w", j.index, err)
	}
	return nil
}

// setState must be called with p.mu held.
func (p *Pool) setState(s State) {
	p.state = s
	metrics.SetPoolState(int(s))
	metrics.SetPoolWorkers(p.Workers())
}

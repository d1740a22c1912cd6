// Package worker runs the snapshot build fan-out.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gridironlab/pigskin/internal/adapters/mq/queue"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
	"github.com/gridironlab/pigskin/pkg/logger"
	"github.com/gridironlab/pigskin/pkg/metrics"
)

// Default worker configuration constants.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Builder computes one team snapshot.
type Builder interface {
	Build(ctx context.Context, teamID, season, week int) (rolling.Snapshot, error)
}

// Sink persists computed snapshots.
type Sink interface {
	PutSnapshot(ctx context.Context, snap rolling.Snapshot) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker consumes snapshot jobs until its queue drains or it is stopped.
type Worker struct {
	queue   Queue
	builder Builder
	sink    Sink
	name    string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker with configuration options.
func New(q Queue, builder Builder, sink Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		builder:  builder,
		sink:     sink,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "snapshot job failed",
					logger.Int("team_id", job.TeamID),
					logger.Int("season", job.Season),
					logger.Int("week", job.Week),
					logger.Error(err),
				)
			}
		}
	}
}

func (w *Worker) signalStop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Shutdown stops the worker, waiting for the in-flight job to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.signalStop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap, err := w.builder.Build(ctx, job.TeamID, job.Season, job.Week)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "build_error")
		return fmt.Errorf("building snapshot for team %d: %w", job.TeamID, err)
	}

	if err := w.sink.PutSnapshot(ctx, snap); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("storing snapshot for team %d: %w", job.TeamID, err)
	}

	metrics.RecordSnapshotBuilt()
	if snap.Neutral {
		metrics.RecordSnapshotNeutral()
	}
	if snap.Short.GapGames > 0 || snap.Long.GapGames > 0 {
		metrics.RecordPartialMetricGame()
	}
	metrics.RecordSnapshotBuildLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Pool manages a fixed set of workers draining one queue.
type Pool struct {
	workers []*Worker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one falls
// back to the number of CPUs.
func NewPool(workerCount int, q Queue, builder Builder, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = New(q, builder, sink, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has exited, which happens once the queue
// is closed and drained or the context is cancelled.
func (p *Pool) Wait(ctx context.Context) error {
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return fmt.Errorf("waiting for worker %d: %w", i, ctx.Err())
		}
	}
	return nil
}

// Stop signals all workers and waits briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalStop()
	}

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown stops the pool, closing the queue first so workers drain what
// remains before exiting.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

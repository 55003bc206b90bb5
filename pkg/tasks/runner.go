package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher accepts fire-and-forget work. Implementations never surface the
// task's outcome to the caller; failures are logged only. Used for secondary
// effects whose failure must not invalidate an already-committed primary
// effect (draft cleanup after booking creation, delivery-counter
// compensation).
type Dispatcher interface {
	Dispatch(name string, fn func(ctx context.Context) error)
}

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Runner executes dispatched tasks on a single background worker with a
// detached, per-task-timeout context.
type Runner struct {
	queue   chan task
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
	stop    sync.Once
}

func NewRunner(queueSize int, timeout time.Duration, log *zap.Logger) *Runner {
	r := &Runner{
		queue:   make(chan task, queueSize),
		timeout: timeout,
		log:     log.With(zap.String("component", "tasks")),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Dispatch enqueues a task without blocking. A full queue drops the task;
// that is logged and accepted, since every dispatched task is best-effort by
// contract.
func (r *Runner) Dispatch(name string, fn func(ctx context.Context) error) {
	select {
	case r.queue <- task{name: name, fn: fn}:
	default:
		r.log.Warn("Task queue full, dropping task", zap.String("task", name))
	}
}

func (r *Runner) worker() {
	defer r.wg.Done()

	for t := range r.queue {
		r.run(t)
	}
}

func (r *Runner) run(t task) {
	// Detached from the originating request: the response has already been
	// sent by the time this runs.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		r.log.Error("Background task failed",
			zap.Error(err),
			zap.String("task", t.name),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	r.log.Debug("Background task completed",
		zap.String("task", t.name),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop drains the queue and waits for the worker to finish.
func (r *Runner) Stop() {
	r.stop.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

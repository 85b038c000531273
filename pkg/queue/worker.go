package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/ports"
)

// Executor runs one task to completion. *taskrunner.Runner implements it.
type Executor interface {
	Execute(ctx context.Context, task domain.Task) (domain.SimulationRun, error)
}

// Worker consumes tasks from a broker.
type Worker struct {
	broker  ports.TaskBroker
	results ports.ResultBackend
	exec    Executor
	claims  *claims
	opts    options
}

// NewWorker creates a worker pool. Call Run to start it.
func NewWorker(broker ports.TaskBroker, results ports.ResultBackend, exec Executor, opts ...Option) *Worker {
	o := newOptions(opts)
	return &Worker{
		broker:  broker,
		results: results,
		exec:    exec,
		claims:  newClaims(o.locker, o.claimTTL, o.logger),
		opts:    o,
	}
}

// Run starts the configured number of consumers and blocks until ctx is done
// and every in-flight task has been finalized.
func (w *Worker) Run(ctx context.Context) error {
	w.opts.logger.Info("worker pool started", "concurrency", w.opts.concurrency)

	var wg sync.WaitGroup
	for i := range w.opts.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.consume(ctx, i)
		}()
	}
	wg.Wait()

	w.opts.logger.Info("worker pool stopped")
	return nil
}

func (w *Worker) consume(ctx context.Context, id int) {
	logger := w.opts.logger.With("worker", id)
	for {
		task, err := w.broker.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("failed to dequeue task", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.opts.retryDelay):
			}
			continue
		}

		if err := w.Process(ctx, task); err != nil {
			logger.Debug("task failed", "task_id", task.ID, "kind", task.Kind, "err", err)
		}
	}
}

// Process runs a single task under its claim. A task that is already terminal
// is skipped, so redelivered tasks run at most once. The task's own error is
// returned after its status has been published.
func (w *Worker) Process(ctx context.Context, task domain.Task) error {
	return w.claims.with(ctx, task.ID, func(ctx context.Context) error {
		current, err := w.results.Status(ctx, task.ID)
		switch {
		case err == nil && current.Status.IsTerminal():
			w.opts.logger.Debug("skipping finished task", "task_id", task.ID, "status", current.Status)
			return nil
		case err != nil && !errors.Is(err, domain.ErrTaskNotFound):
			return fmt.Errorf("failed to read task %s: %w", task.ID, err)
		}

		runCtx := ctx
		if w.opts.taskTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, w.opts.taskTimeout)
			defer cancel()
		}

		run, runErr := w.exec.Execute(runCtx, task)

		status := domain.TaskStatus{TaskID: task.ID, Status: domain.StatusSuccess, Result: run.Result, UpdatedAt: w.opts.clock().UTC()}
		if runErr != nil {
			status.Status = domain.StatusFailure
			status.Result = domain.Result{"error": runErr.Error()}
		}
		storeCtx := context.WithoutCancel(ctx)
		if err := w.results.SetStatus(storeCtx, status); err != nil {
			publishErr := fmt.Errorf("failed to persist result of task %s: %w", task.ID, err)
			w.opts.logger.Warn("failed to publish task status, recording failure", "task_id", task.ID, "err", err)

			status.Status = domain.StatusFailure
			status.Result = domain.Result{"error": publishErr.Error()}
			if err := w.results.SetStatus(storeCtx, status); err != nil {
				return errors.Join(runErr, publishErr, fmt.Errorf("failed to publish task %s: %w", task.ID, err))
			}
			return errors.Join(runErr, publishErr)
		}
		return runErr
	})
}

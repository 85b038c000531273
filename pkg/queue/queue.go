// Package queue runs simulations asynchronously. Submit records a task as
// PENDING and hands it to a broker; a Worker pool consumes the broker, runs
// each task through an Executor and publishes the terminal status to the
// result backend, where Status reads it.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/ports"
)

const (
	DefaultConcurrency = 4
	DefaultClaimTTL    = 5 * time.Minute
	DefaultRetryDelay  = time.Second
)

type options struct {
	logger      *slog.Logger
	locker      ports.DistributedLocker
	concurrency int
	claimTTL    time.Duration
	taskTimeout time.Duration
	retryDelay  time.Duration
	clock       func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		logger:      logging.NewNop(),
		concurrency: DefaultConcurrency,
		claimTTL:    DefaultClaimTTL,
		retryDelay:  DefaultRetryDelay,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Queue or a Worker.
type Option func(*options)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLocker enables claims across worker replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(o *options) {
		o.locker = locker
	}
}

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithClaimTTL bounds how long a crashed worker can hold a task claim.
func WithClaimTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.claimTTL = ttl
		}
	}
}

// WithTaskTimeout cancels a task that runs longer than d. Zero disables it.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *options) {
		o.taskTimeout = d
	}
}

// WithRetryDelay sets the pause after a failed dequeue.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		o.retryDelay = d
	}
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// Queue is the submission side of the task queue.
type Queue struct {
	broker  ports.TaskBroker
	results ports.ResultBackend
	opts    options
}

// New creates a Queue.
func New(broker ports.TaskBroker, results ports.ResultBackend, opts ...Option) *Queue {
	return &Queue{broker: broker, results: results, opts: newOptions(opts)}
}

// Submit enqueues a simulation for userID and returns its task ID without
// waiting for it to run.
func (q *Queue) Submit(ctx context.Context, userID int64, kind domain.Kind, params domain.Parameters) (string, error) {
	task := domain.NewTask(userID, kind, params, q.opts.clock())

	pending := domain.TaskStatus{TaskID: task.ID, Status: domain.StatusPending, UpdatedAt: task.SubmittedAt}
	if err := q.results.SetStatus(ctx, pending); err != nil {
		return "", fmt.Errorf("failed to record task %s: %w", task.ID, err)
	}
	if err := q.broker.Enqueue(ctx, task); err != nil {
		return "", fmt.Errorf("failed to enqueue task %s: %w", task.ID, err)
	}

	q.opts.logger.Debug("task submitted", "task_id", task.ID, "kind", kind, "user_id", userID)
	return task.ID, nil
}

// Status returns the last known status of a task, or domain.ErrTaskNotFound.
func (q *Queue) Status(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	st, err := q.results.Status(ctx, taskID)
	if err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
		return domain.TaskStatus{}, fmt.Errorf("failed to read task %s: %w", taskID, err)
	}
	return st, err
}

// Package taskrunner executes one simulation task end to end: it resolves the
// requesting user, records a PENDING run, dispatches the simulation and writes
// exactly one terminal status for the run, whichever way the simulation ends.
package taskrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codenameuriel/exo-intel/internal/logging"
	"github.com/codenameuriel/exo-intel/pkg/dispatch"
	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/codenameuriel/exo-intel/pkg/ports"
)

// Resolver maps a kind to its simulation. *dispatch.Dispatcher implements it.
type Resolver interface {
	Resolve(kind domain.Kind) (dispatch.Simulation, error)
}

// Runner drives the PENDING -> SUCCESS | FAILURE protocol for a task.
type Runner struct {
	users    ports.UserDirectory
	history  ports.RunHistory
	resolver Resolver

	logger *slog.Logger
	hooks  domain.LifecycleHooks
	delay  time.Duration
	clock  func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks registers lifecycle callbacks, merged with any already set.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithDelay adds an artificial pause before the simulation runs. Cancelling
// the context during the pause fails the run.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.delay = d
	}
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// New creates a Runner.
func New(users ports.UserDirectory, history ports.RunHistory, resolver Resolver, opts ...Option) *Runner {
	r := &Runner{
		users:    users,
		history:  history,
		resolver: resolver,
		logger:   logging.NewNop(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs task and returns its run in the state it was left in.
//
// A task whose user cannot be resolved fails with *domain.UserResolutionError
// and leaves no run behind. Every other outcome, including a panic inside the
// simulation, ends with the run in SUCCESS or FAILURE and completed_at set.
// Simulation errors are returned unchanged.
func (r *Runner) Execute(ctx context.Context, task domain.Task) (run domain.SimulationRun, err error) {
	user, err := r.resolveUser(ctx, task.UserID)
	if err != nil {
		return domain.SimulationRun{}, err
	}

	run, err = r.history.Create(ctx, domain.NewRun(user.ID, task.ID, task.Kind, task.Parameters, r.clock()))
	if err != nil {
		return domain.SimulationRun{}, fmt.Errorf("failed to create run for task %s: %w", task.ID, err)
	}

	start := r.clock()
	r.emit(ctx, domain.EventRunStart, run, 0, nil)

	var result domain.Result
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("simulation panicked: %v", p)
		}
		run, err = r.finalize(ctx, run, result, err, start)
	}()

	sim, err := r.resolver.Resolve(task.Kind)
	if err != nil {
		return run, err
	}
	if err = r.wait(ctx); err != nil {
		return run, err
	}
	result, err = sim(ctx, task.Parameters)
	return run, err
}

func (r *Runner) resolveUser(ctx context.Context, userID int64) (domain.User, error) {
	user, err := r.users.User(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, &domain.UserResolutionError{UserID: userID}
	}
	if err != nil {
		return domain.User{}, &domain.UserResolutionError{UserID: userID, Err: err}
	}
	if !user.Active {
		return domain.User{}, &domain.UserResolutionError{UserID: userID, Err: errors.New("user is inactive")}
	}
	return user, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.delay <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation cancelled: %w", err)
		}
		return nil
	}
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("simulation cancelled: %w", context.Cause(ctx))
	case <-timer.C:
		return nil
	}
}

// finalize performs the single terminal write for run. It ignores
// cancellation of ctx so a cancelled task still leaves a terminal record.
// When the outcome cannot be stored (an unencodable result, say), the run is
// failed with the storage error instead.
func (r *Runner) finalize(ctx context.Context, run domain.SimulationRun, result domain.Result, runErr error, start time.Time) (domain.SimulationRun, error) {
	outcome := domain.Succeeded(result)
	if runErr != nil {
		outcome = domain.Failed(runErr.Error())
	}

	completed := r.clock().UTC()
	storeCtx := context.WithoutCancel(ctx)
	err := r.history.Complete(storeCtx, run.ID, outcome.Status(), outcome.Payload(), completed)
	if err != nil && !errors.Is(err, domain.ErrRunTerminal) {
		persistErr := fmt.Errorf("failed to persist result of run %d: %w", run.ID, err)
		r.logger.Warn("failed to store run outcome, recording failure", "run_id", run.ID, "task_id", run.TaskID, "err", err)

		fallback := domain.Failed(persistErr.Error())
		if err = r.history.Complete(storeCtx, run.ID, fallback.Status(), fallback.Payload(), completed); err == nil {
			outcome = fallback
			runErr = errors.Join(runErr, persistErr)
		}
	}
	if err != nil {
		r.logger.Error("failed to finalize run", "run_id", run.ID, "task_id", run.TaskID, "err", err)
		runErr = errors.Join(runErr, fmt.Errorf("failed to finalize run %d: %w", run.ID, err))
		r.emit(ctx, domain.EventRunFinish, run, completed.Sub(start), runErr)
		return run, runErr
	}

	run.Status = outcome.Status()
	run.Result = outcome.Payload()
	run.CompletedAt = &completed

	duration := completed.Sub(start)
	attrs := []any{"run_id", run.ID, "task_id", run.TaskID, "kind", run.Kind, "status", run.Status, "duration", duration}
	switch {
	case runErr == nil:
		r.logger.Info("simulation succeeded", attrs...)
	case domain.IsDomainError(runErr):
		r.logger.Warn("simulation rejected", append(attrs, "err", runErr)...)
	default:
		r.logger.Error("simulation failed", append(attrs, "err", runErr)...)
	}

	r.emit(ctx, domain.EventRunFinish, run, duration, runErr)
	return run, runErr
}

func (r *Runner) emit(ctx context.Context, typ domain.EventType, run domain.SimulationRun, d time.Duration, err error) {
	hook := r.hooks.OnRunStart
	if typ == domain.EventRunFinish {
		hook = r.hooks.OnRunFinish
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: r.clock().UTC(), Type: typ, TaskID: run.TaskID},
		RunID:     run.ID,
		Kind:      run.Kind,
		Status:    run.Status,
		Duration:  d,
		Err:       err,
	})
}

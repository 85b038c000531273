package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Option configures the Broker and Results.
type Option func(*options)

type options struct {
	prefix      string
	ttl         time.Duration
	pollTimeout time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		prefix:      DefaultPrefix,
		ttl:         24 * time.Hour,
		pollTimeout: time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTTL sets the expiration of stored task results. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithPollTimeout sets how long a single BRPOP blocks before the broker
// re-checks its context. Redis only accepts whole seconds.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		o.pollTimeout = d
	}
}

// Broker implements ports.TaskBroker on a Redis list (LPUSH / BRPOP).
type Broker struct {
	client *backend.Client
	opts   options
}

// NewBroker creates a broker on an existing client.
func NewBroker(client *backend.Client, opts ...Option) *Broker {
	return &Broker{client: client, opts: newOptions(opts)}
}

func (b *Broker) queueKey() string {
	return b.opts.prefix + "tasks"
}

// Enqueue pushes the task to the head of the list.
func (b *Broker) Enqueue(ctx context.Context, task domain.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := b.client.LPush(ctx, b.queueKey(), data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Dequeue pops from the tail, blocking until a task arrives or ctx is done.
func (b *Broker) Dequeue(ctx context.Context) (domain.Task, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Task{}, err
		}

		vals, err := b.client.BRPop(ctx, b.opts.pollTimeout, b.queueKey()).Result()
		if errors.Is(err, backend.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.Task{}, ctxErr
			}
			return domain.Task{}, fmt.Errorf("failed to dequeue task: %w", err)
		}

		// BRPOP replies with [key, value].
		var task domain.Task
		if err := json.Unmarshal([]byte(vals[1]), &task); err != nil {
			return domain.Task{}, fmt.Errorf("failed to unmarshal task: %w", err)
		}
		return task, nil
	}
}

// Len reports the number of queued tasks.
func (b *Broker) Len(ctx context.Context) (int64, error) {
	return b.client.LLen(ctx, b.queueKey()).Result()
}

// Results implements ports.ResultBackend with one JSON key per task.
type Results struct {
	client *backend.Client
	opts   options
}

// NewResults creates a result backend on an existing client.
func NewResults(client *backend.Client, opts ...Option) *Results {
	return &Results{client: client, opts: newOptions(opts)}
}

func (r *Results) key(taskID string) string {
	return r.opts.prefix + "task:" + taskID
}

// SetStatus overwrites the task status and refreshes its TTL.
func (r *Results) SetStatus(ctx context.Context, status domain.TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal task status: %w", err)
	}
	if err := r.client.Set(ctx, r.key(status.TaskID), data, r.opts.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save task status: %w", err)
	}
	return nil
}

// Status loads the task status.
func (r *Results) Status(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	val, err := r.client.Get(ctx, r.key(taskID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.TaskStatus{}, domain.ErrTaskNotFound
		}
		return domain.TaskStatus{}, fmt.Errorf("failed to get task status: %w", err)
	}

	var status domain.TaskStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return domain.TaskStatus{}, fmt.Errorf("failed to unmarshal task status: %w", err)
	}
	return status, nil
}

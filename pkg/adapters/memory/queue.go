package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// DefaultBrokerCapacity bounds the number of queued tasks.
const DefaultBrokerCapacity = 1024

// Broker implements ports.TaskBroker over a buffered channel.
// Enqueue blocks when the buffer is full.
type Broker struct {
	tasks chan domain.Task
}

// NewBroker creates a broker holding up to capacity tasks.
func NewBroker(capacity int) *Broker {
	if capacity <= 0 {
		capacity = DefaultBrokerCapacity
	}
	return &Broker{tasks: make(chan domain.Task, capacity)}
}

func (b *Broker) Enqueue(ctx context.Context, task domain.Task) error {
	task.Parameters = maps.Clone(task.Parameters)
	select {
	case b.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Broker) Dequeue(ctx context.Context) (domain.Task, error) {
	select {
	case task := <-b.tasks:
		return task, nil
	case <-ctx.Done():
		return domain.Task{}, ctx.Err()
	}
}

// Len reports the number of queued tasks.
func (b *Broker) Len() int { return len(b.tasks) }

// Results implements ports.ResultBackend in memory.
type Results struct {
	mu       sync.RWMutex
	statuses map[string]domain.TaskStatus
}

// NewResults creates an empty result backend.
func NewResults() *Results {
	return &Results{statuses: make(map[string]domain.TaskStatus)}
}

func (r *Results) SetStatus(ctx context.Context, status domain.TaskStatus) error {
	status.Result = maps.Clone(status.Result)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[status.TaskID] = status
	return nil
}

func (r *Results) Status(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[taskID]
	if !ok {
		return domain.TaskStatus{}, domain.ErrTaskNotFound
	}
	s.Result = maps.Clone(s.Result)
	return s, nil
}

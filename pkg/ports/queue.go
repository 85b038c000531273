package ports

import (
	"context"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// TaskBroker is a FIFO of submitted tasks.
type TaskBroker interface {
	Enqueue(ctx context.Context, task domain.Task) error

	// Dequeue blocks until a task is available or ctx is done.
	Dequeue(ctx context.Context) (domain.Task, error)
}

// ResultBackend stores the last known status of each task.
type ResultBackend interface {
	SetStatus(ctx context.Context, status domain.TaskStatus) error

	// Status returns domain.ErrTaskNotFound for unknown task IDs.
	Status(ctx context.Context, taskID string) (domain.TaskStatus, error)
}

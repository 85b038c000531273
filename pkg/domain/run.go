package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a simulation run or task.
type RunStatus string

const (
	StatusPending RunStatus = "PENDING"
	StatusSuccess RunStatus = "SUCCESS"
	StatusFailure RunStatus = "FAILURE"
)

// IsTerminal returns true if no further transitions are possible.
func (s RunStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// CanTransition enforces PENDING -> SUCCESS | FAILURE and nothing else.
func CanTransition(from, to RunStatus) bool {
	return from == StatusPending && to.IsTerminal()
}

// SimulationRun is the history record of one simulation execution.
type SimulationRun struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	TaskID          string     `json:"task_id"`
	Kind            Kind       `json:"simulation_type"`
	InputParameters Parameters `json:"input_parameters"`
	Status          RunStatus  `json:"status"`
	Result          Result     `json:"result"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// NewRun builds a PENDING run for a task.
func NewRun(userID int64, taskID string, kind Kind, params Parameters, now time.Time) SimulationRun {
	return SimulationRun{
		UserID:          userID,
		TaskID:          taskID,
		Kind:            kind,
		InputParameters: params,
		Status:          StatusPending,
		CreatedAt:       now.UTC(),
	}
}

// Task is a unit of work submitted to the queue.
type Task struct {
	ID          string     `json:"id"`
	UserID      int64      `json:"user_id"`
	Kind        Kind       `json:"kind"`
	Parameters  Parameters `json:"parameters"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// NewTask builds a task with a fresh opaque handle.
func NewTask(userID int64, kind Kind, params Parameters, now time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Parameters:  params,
		SubmittedAt: now.UTC(),
	}
}

// TaskStatus is what the task status interface reports for a handle.
type TaskStatus struct {
	TaskID    string    `json:"task_id"`
	Status    RunStatus `json:"status"`
	Result    Result    `json:"result"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is the requesting identity.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Active   bool   `json:"active" db:"active"`
}

// APIKey authenticates a user.
type APIKey struct {
	Key       uuid.UUID `json:"key"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Preview returns the first 8 characters of the key for display.
func (k APIKey) Preview() string {
	return k.Key.String()[:8] + "..."
}

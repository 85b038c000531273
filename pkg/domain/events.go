package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunFinish EventType = "run_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TaskID    string    `json:"task_id"`
}

// RunEvent describes a simulation run entering or leaving execution.
type RunEvent struct {
	EventBase
	RunID    int64         `json:"run_id"`
	Kind     Kind          `json:"kind"`
	Status   RunStatus     `json:"status"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for runner observability.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunFinish func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first, then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:  chain(h.OnRunStart, other.OnRunStart),
		OnRunFinish: chain(h.OnRunFinish, other.OnRunFinish),
	}
}

func chain(a, b func(context.Context, *RunEvent)) func(context.Context, *RunEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *RunEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

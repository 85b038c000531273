package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// History implements ports.RunHistory in memory.
// Safe for concurrent use.
type History struct {
	mu     sync.RWMutex
	nextID int64
	runs   map[int64]domain.SimulationRun
}

// NewHistory creates an empty run history.
func NewHistory() *History {
	return &History{runs: make(map[int64]domain.SimulationRun)}
}

// Create assigns the next ID and stores a copy of the run.
func (h *History) Create(ctx context.Context, run domain.SimulationRun) (domain.SimulationRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	run.ID = h.nextID
	run.Status = domain.StatusPending
	run.Result = nil
	run.CompletedAt = nil
	run.InputParameters = maps.Clone(run.InputParameters)
	h.runs[run.ID] = run
	return cloneRun(run), nil
}

// Complete writes the terminal status, result and completion time in one step.
func (h *History) Complete(ctx context.Context, runID int64, status domain.RunStatus, result domain.Result, completedAt time.Time) error {
	if !status.IsTerminal() {
		return domain.Invalid("status", "%s is not a terminal status", status)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	run, ok := h.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	if !domain.CanTransition(run.Status, status) {
		return domain.ErrRunTerminal
	}

	done := completedAt.UTC()
	run.Status = status
	run.Result = maps.Clone(result)
	run.CompletedAt = &done
	h.runs[runID] = run
	return nil
}

func (h *History) Get(ctx context.Context, runID int64) (domain.SimulationRun, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	run, ok := h.runs[runID]
	if !ok {
		return domain.SimulationRun{}, domain.ErrNotFound
	}
	return cloneRun(run), nil
}

func (h *History) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.SimulationRun, error) {
	h.mu.RLock()
	var out []domain.SimulationRun
	for _, run := range h.runs {
		if run.UserID == userID {
			out = append(out, cloneRun(run))
		}
	}
	h.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.SimulationRun) int {
		if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
			return n
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return paginate(out, page), nil
}

func cloneRun(run domain.SimulationRun) domain.SimulationRun {
	run.InputParameters = maps.Clone(run.InputParameters)
	run.Result = maps.Clone(run.Result)
	if run.CompletedAt != nil {
		t := *run.CompletedAt
		run.CompletedAt = &t
	}
	return run
}

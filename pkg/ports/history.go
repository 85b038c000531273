package ports

import (
	"context"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// RunHistory persists simulation runs.
type RunHistory interface {
	// Create stores a PENDING run and returns it with its ID assigned.
	Create(ctx context.Context, run domain.SimulationRun) (domain.SimulationRun, error)

	// Complete moves a PENDING run to a terminal status, writing the result and
	// completed_at together. It returns domain.ErrRunTerminal if the run is
	// already terminal and domain.ErrNotFound if it does not exist.
	Complete(ctx context.Context, runID int64, status domain.RunStatus, result domain.Result, completedAt time.Time) error

	// Get returns a run by ID or domain.ErrNotFound.
	Get(ctx context.Context, runID int64) (domain.SimulationRun, error)

	// ListByUser returns a user's runs, newest first.
	ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.SimulationRun, error)
}

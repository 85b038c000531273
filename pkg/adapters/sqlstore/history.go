package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/codenameuriel/exo-intel/pkg/domain"
)

// History implements ports.RunHistory.
type History struct {
	db *DB
}

type runRow struct {
	ID              int64          `db:"id"`
	UserID          int64          `db:"user_id"`
	TaskID          string         `db:"task_id"`
	Kind            string         `db:"simulation_type"`
	InputParameters string         `db:"input_parameters"`
	Status          string         `db:"status"`
	Result          sql.NullString `db:"result"`
	CreatedAt       time.Time      `db:"created_at"`
	CompletedAt     sql.NullTime   `db:"completed_at"`
}

const runColumns = `id, user_id, task_id, simulation_type, input_parameters, status, result, created_at, completed_at`

func (r runRow) toDomain() (domain.SimulationRun, error) {
	run := domain.SimulationRun{
		ID:        r.ID,
		UserID:    r.UserID,
		TaskID:    r.TaskID,
		Kind:      domain.Kind(r.Kind),
		Status:    domain.RunStatus(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(r.InputParameters), &run.InputParameters); err != nil {
		return domain.SimulationRun{}, fmt.Errorf("decode input parameters: %w", err)
	}
	if r.Result.Valid {
		if err := json.Unmarshal([]byte(r.Result.String), &run.Result); err != nil {
			return domain.SimulationRun{}, fmt.Errorf("decode result: %w", err)
		}
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time.UTC()
		run.CompletedAt = &t
	}
	return run, nil
}

// Create inserts a PENDING run and returns it with the generated ID.
func (h *History) Create(ctx context.Context, run domain.SimulationRun) (domain.SimulationRun, error) {
	params, err := json.Marshal(run.InputParameters)
	if err != nil {
		return domain.SimulationRun{}, fmt.Errorf("encode input parameters: %w", err)
	}

	run.Status = domain.StatusPending
	run.Result = nil
	run.CompletedAt = nil
	run.CreatedAt = run.CreatedAt.UTC()

	query := h.db.rebind(`INSERT INTO simulation_runs (user_id, task_id, simulation_type, input_parameters, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)
	err = h.db.conn.QueryRowxContext(ctx, query,
		run.UserID, run.TaskID, string(run.Kind), string(params), string(run.Status), run.CreatedAt,
	).Scan(&run.ID)
	if err != nil {
		return domain.SimulationRun{}, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// Complete performs the single PENDING -> terminal transition.
func (h *History) Complete(ctx context.Context, runID int64, status domain.RunStatus, result domain.Result, completedAt time.Time) error {
	if !status.IsTerminal() {
		return domain.Invalid("status", "%s is not a terminal status", status)
	}

	var payload sql.NullString
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		payload = sql.NullString{String: string(data), Valid: true}
	}

	query := h.db.rebind(`UPDATE simulation_runs SET status = ?, result = ?, completed_at = ? WHERE id = ? AND status = ?`)
	res, err := h.db.conn.ExecContext(ctx, query, string(status), payload, completedAt.UTC(), runID, string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to complete run %d: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete run %d: %w", runID, err)
	}
	if n == 1 {
		return nil
	}

	if _, err := h.Get(ctx, runID); err != nil {
		return err
	}
	return domain.ErrRunTerminal
}

func (h *History) Get(ctx context.Context, runID int64) (domain.SimulationRun, error) {
	var row runRow
	err := h.db.conn.GetContext(ctx, &row, h.db.rebind(`SELECT `+runColumns+` FROM simulation_runs WHERE id = ?`), runID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SimulationRun{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SimulationRun{}, fmt.Errorf("failed to get run %d: %w", runID, err)
	}
	return row.toDomain()
}

func (h *History) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.SimulationRun, error) {
	page = page.Normalize()
	var rows []runRow
	query := h.db.rebind(`SELECT ` + runColumns + ` FROM simulation_runs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := h.db.conn.SelectContext(ctx, &rows, query, userID, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]domain.SimulationRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

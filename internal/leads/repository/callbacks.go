package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCallbackNotFound = errors.New("callback not found")

// Callback is a scheduled follow-up for a lead. Completion is a transition
// on this row; the originating ledger entry stays untouched.
type Callback struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	CreatedBy   uuid.UUID
	DueAt       time.Time
	Notes       string
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

type CreateCallbackParams struct {
	LeadID    uuid.UUID
	CreatedBy uuid.UUID
	DueAt     time.Time
	Notes     string
}

func (r *Repository) CreateCallback(ctx context.Context, params CreateCallbackParams) (Callback, error) {
	var callback Callback
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_callbacks (lead_id, created_by, due_at, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, created_by, due_at, notes, completed, completed_at, created_at
	`, params.LeadID, params.CreatedBy, params.DueAt, params.Notes).Scan(
		&callback.ID,
		&callback.LeadID,
		&callback.CreatedBy,
		&callback.DueAt,
		&callback.Notes,
		&callback.Completed,
		&callback.CompletedAt,
		&callback.CreatedAt,
	)
	if err != nil {
		return Callback{}, err
	}
	return callback, nil
}

func (r *Repository) GetCallbackByID(ctx context.Context, id uuid.UUID) (Callback, error) {
	var callback Callback
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, created_by, due_at, notes, completed, completed_at, created_at
		FROM lead_callbacks
		WHERE id = $1
	`, id).Scan(
		&callback.ID,
		&callback.LeadID,
		&callback.CreatedBy,
		&callback.DueAt,
		&callback.Notes,
		&callback.Completed,
		&callback.CompletedAt,
		&callback.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Callback{}, ErrCallbackNotFound
	}
	if err != nil {
		return Callback{}, err
	}
	return callback, nil
}

// CompleteCallback marks a callback done. Idempotent: completing an already
// completed callback keeps the original completion time.
func (r *Repository) CompleteCallback(ctx context.Context, id uuid.UUID) (Callback, error) {
	var callback Callback
	err := r.pool.QueryRow(ctx, `
		UPDATE lead_callbacks
		SET completed = true, completed_at = COALESCE(completed_at, now())
		WHERE id = $1
		RETURNING id, lead_id, created_by, due_at, notes, completed, completed_at, created_at
	`, id).Scan(
		&callback.ID,
		&callback.LeadID,
		&callback.CreatedBy,
		&callback.DueAt,
		&callback.Notes,
		&callback.Completed,
		&callback.CompletedAt,
		&callback.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Callback{}, ErrCallbackNotFound
	}
	if err != nil {
		return Callback{}, err
	}
	return callback, nil
}

// ListOpenCallbacks returns uncompleted callbacks for a lead, soonest first.
func (r *Repository) ListOpenCallbacks(ctx context.Context, leadID uuid.UUID) ([]Callback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, created_by, due_at, notes, completed, completed_at, created_at
		FROM lead_callbacks
		WHERE lead_id = $1 AND completed = false
		ORDER BY due_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Callback, 0)
	for rows.Next() {
		var callback Callback
		if err := rows.Scan(
			&callback.ID,
			&callback.LeadID,
			&callback.CreatedBy,
			&callback.DueAt,
			&callback.Notes,
			&callback.Completed,
			&callback.CompletedAt,
			&callback.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, callback)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

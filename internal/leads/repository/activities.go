package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity types. Each type has a fixed metadata payload shape, declared
// as a typed struct in activity_metadata.go.
const (
	ActivityTypeNote             = "note"
	ActivityTypeCall             = "call"
	ActivityTypeEmail            = "email"
	ActivityTypeCallback         = "callback"
	ActivityTypeStageChange      = "stage_change"
	ActivityTypeAssignmentChange = "assignment_change"
	ActivityTypeEvent            = "event"
)

// Activity is one immutable ledger entry for a lead. Entries are never
// updated or deleted after insertion.
type Activity struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	CreatedBy   uuid.UUID
	Type        string
	Description string
	Metadata    map[string]any
	IsPrivate   bool
	CreatedAt   time.Time
}

type CreateActivityParams struct {
	LeadID      uuid.UUID
	CreatedBy   uuid.UUID
	Type        string
	Description string
	Metadata    map[string]any
	IsPrivate   bool
}

// CreateActivity appends one entry to the lead's activity ledger.
func (r *Repository) CreateActivity(ctx context.Context, params CreateActivityParams) (Activity, error) {
	metadataJSON, err := json.Marshal(params.Metadata)
	if err != nil {
		return Activity{}, err
	}

	var activity Activity
	// metadata is excluded from RETURNING: we already hold params.Metadata
	// as a Go value and re-scanning the stored JSONB would add a redundant
	// unmarshal on every insert.
	err = r.pool.QueryRow(ctx, `
		INSERT INTO lead_activities (lead_id, created_by, type, description, metadata, is_private)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, created_by, type, description, is_private, created_at
	`, params.LeadID, params.CreatedBy, params.Type, params.Description, metadataJSON, params.IsPrivate).Scan(
		&activity.ID,
		&activity.LeadID,
		&activity.CreatedBy,
		&activity.Type,
		&activity.Description,
		&activity.IsPrivate,
		&activity.CreatedAt,
	)
	if err != nil {
		return Activity{}, err
	}

	activity.Metadata = params.Metadata
	return activity, nil
}

// ListActivities returns all ledger entries for a lead, newest first.
// Privacy filtering happens in the service layer at read time.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, created_by, type, description, metadata, is_private, created_at
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var activity Activity
		var rawMetadata []byte
		if err := rows.Scan(
			&activity.ID,
			&activity.LeadID,
			&activity.CreatedBy,
			&activity.Type,
			&activity.Description,
			&rawMetadata,
			&activity.IsPrivate,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		metadata, err := decodeActivityMetadata(rawMetadata)
		if err != nil {
			return nil, err
		}
		activity.Metadata = metadata
		items = append(items, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// decodeActivityMetadata unmarshals a stored JSONB payload. Corrupt
// metadata is surfaced as an error, never silently dropped.
func decodeActivityMetadata(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, fmt.Errorf("decode activity metadata: %w", err)
	}
	return metadata, nil
}

// Package repository implements the lead record store accessor on PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID               uuid.UUID
	Code             string
	Name             string
	Email            *string
	Phone            string
	MessagingHandle  *string
	Sources          []string
	ProductInterests []string
	Tags             []string
	Stage            string
	Rating           *int
	Score            *int
	LeadType         *string
	AssignedUserID   *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const leadSelectCols = `
	id, code, name, email, phone, messaging_handle, sources, product_interests, tags,
	stage, rating, score, lead_type, assigned_user_id, created_at, updated_at`

type leadRowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s leadRowScanner) (Lead, error) {
	var lead Lead
	err := s.Scan(
		&lead.ID, &lead.Code, &lead.Name, &lead.Email, &lead.Phone, &lead.MessagingHandle,
		&lead.Sources, &lead.ProductInterests, &lead.Tags,
		&lead.Stage, &lead.Rating, &lead.Score, &lead.LeadType, &lead.AssignedUserID,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	Name             string
	Email            *string
	Phone            string
	MessagingHandle  *string
	Sources          []string
	ProductInterests []string
	Tags             []string
	Stage            string
	AssignedUserID   *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, email, phone, messaging_handle, sources, product_interests, tags,
			stage, assigned_user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+leadSelectCols+`
	`,
		params.Name, params.Email, params.Phone, params.MessagingHandle,
		params.Sources, params.ProductInterests, params.Tags,
		params.Stage, params.AssignedUserID,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+leadSelectCols+`
		FROM leads
		WHERE id = $1 AND deleted_at IS NULL
	`, id)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type ListParams struct {
	Stage    *string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Offset   int
	Limit    int
}

// List returns a filtered page of leads plus the total match count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Stage != nil {
		where = append(where, "stage = "+arg(*params.Stage))
	}
	if params.DateFrom != nil {
		where = append(where, "created_at >= "+arg(*params.DateFrom))
	}
	if params.DateTo != nil {
		where = append(where, "created_at < "+arg(*params.DateTo))
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := arg("%" + search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s OR phone ILIKE %s OR code ILIKE %s)", pattern, pattern, pattern, pattern))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	query := `
		SELECT` + leadSelectCols + `
		FROM leads
		WHERE ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ` + arg(limit) + ` OFFSET ` + arg(params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

type UpdateLeadParams struct {
	Name              *string
	Email             *string
	EmailSet          bool
	Phone             *string
	MessagingHandle   *string
	Sources           []string
	ProductInterests  []string
	ProductSet        bool
	Tags              []string
	TagsSet           bool
	AssignedUserID    *uuid.UUID
	AssignedUserIDSet bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	set := []string{"updated_at = now()"}
	args := []any{}
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Name != nil {
		set = append(set, "name = "+arg(*params.Name))
	}
	if params.EmailSet {
		set = append(set, "email = "+arg(params.Email))
	}
	if params.Phone != nil {
		set = append(set, "phone = "+arg(*params.Phone))
		set = append(set, "messaging_handle = "+arg(params.MessagingHandle))
	}
	if params.Sources != nil {
		set = append(set, "sources = "+arg(params.Sources))
	}
	if params.ProductSet {
		set = append(set, "product_interests = "+arg(params.ProductInterests))
	}
	if params.TagsSet {
		set = append(set, "tags = "+arg(params.Tags))
	}
	if params.AssignedUserIDSet {
		set = append(set, "assigned_user_id = "+arg(params.AssignedUserID))
	}

	query := `
		UPDATE leads
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + arg(id) + ` AND deleted_at IS NULL
		RETURNING` + leadSelectCols

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// UpdateStage persists a new pipeline stage. Stage validity is enforced by
// the pipeline service before this call; concurrent writers are
// last-write-wins at the storage layer (no version check).
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET stage = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING`+leadSelectCols+`
	`, id, stage)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// UpdateRating sets or clears the 1-5 star rating.
func (r *Repository) UpdateRating(ctx context.Context, id uuid.UUID, rating *int) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET rating = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING`+leadSelectCols+`
	`, id, rating)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

// Delete soft-deletes a lead. Leads are never physically removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

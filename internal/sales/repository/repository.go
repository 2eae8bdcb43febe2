// Package repository implements the sales record store accessor: quotations,
// orders and the read-only user directory.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

// Quotation statuses. Stored status is what the owner set; expiry is
// recomputed from valid_until at read time, never written back.
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
	QuotationExpired  = "expired"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Amounts are integer cents throughout; no floating point money at rest.
type Quotation struct {
	ID         uuid.UUID
	Code       string
	LeadID     *uuid.UUID
	UserID     uuid.UUID
	Status     string
	TotalCents int64
	ValidUntil time.Time
	CreatedAt  time.Time
}

type Order struct {
	ID         uuid.UUID
	Code       string
	UserID     uuid.UUID
	TotalCents int64
	CreatedAt  time.Time
}

type User struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

type CreateQuotationParams struct {
	LeadID     *uuid.UUID
	UserID     uuid.UUID
	Status     string
	TotalCents int64
	ValidUntil time.Time
}

func (r *Repository) CreateQuotation(ctx context.Context, params CreateQuotationParams) (Quotation, error) {
	var q Quotation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO quotations (lead_id, user_id, status, total_cents, valid_until)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, code, lead_id, user_id, status, total_cents, valid_until, created_at
	`, params.LeadID, params.UserID, params.Status, params.TotalCents, params.ValidUntil).Scan(
		&q.ID, &q.Code, &q.LeadID, &q.UserID, &q.Status, &q.TotalCents, &q.ValidUntil, &q.CreatedAt,
	)
	if err != nil {
		return Quotation{}, err
	}
	return q, nil
}

func (r *Repository) ListQuotations(ctx context.Context) ([]Quotation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, lead_id, user_id, status, total_cents, valid_until, created_at
		FROM quotations
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Quotation, 0)
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(&q.ID, &q.Code, &q.LeadID, &q.UserID, &q.Status, &q.TotalCents, &q.ValidUntil, &q.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type CreateOrderParams struct {
	UserID     uuid.UUID
	TotalCents int64
}

func (r *Repository) CreateOrder(ctx context.Context, params CreateOrderParams) (Order, error) {
	var o Order
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_cents)
		VALUES ($1, $2)
		RETURNING id, code, user_id, total_cents, created_at
	`, params.UserID, params.TotalCents).Scan(
		&o.ID, &o.Code, &o.UserID, &o.TotalCents, &o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, user_id, total_cents, created_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Code, &o.UserID, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role
		FROM users
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

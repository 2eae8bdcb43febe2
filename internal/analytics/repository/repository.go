// Package repository loads the reporting snapshot from the record store.
// Reads only; the aggregator owns all derivation.
package repository

import (
	"context"

	"crm_backend/internal/analytics/aggregator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListLeads(ctx context.Context) ([]aggregator.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, stage, sources, assigned_user_id, created_at
		FROM leads
		WHERE deleted_at IS NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]aggregator.Lead, 0)
	for rows.Next() {
		var lead aggregator.Lead
		if err := rows.Scan(&lead.ID, &lead.Code, &lead.Name, &lead.Stage, &lead.Sources, &lead.AssignedUserID, &lead.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListQuotations(ctx context.Context) ([]aggregator.Quotation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, user_id, status, total_cents, valid_until, created_at
		FROM quotations
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]aggregator.Quotation, 0)
	for rows.Next() {
		var q aggregator.Quotation
		if err := rows.Scan(&q.ID, &q.Code, &q.UserID, &q.Status, &q.TotalCents, &q.ValidUntil, &q.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]aggregator.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, user_id, total_cents, created_at
		FROM orders
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]aggregator.Order, 0)
	for rows.Next() {
		var o aggregator.Order
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

func (r *Repository) ListUsers(ctx context.Context) ([]aggregator.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name
		FROM users
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]aggregator.User, 0)
	for rows.Next() {
		var u aggregator.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Package service exposes quotation, order and user directory operations.
// Quotation lifecycle management beyond creation lives elsewhere; this
// slice is the data-entry and reporting surface.
package service

import (
	"context"
	"time"

	"crm_backend/internal/sales/repository"
	"crm_backend/internal/sales/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the persistence surface the sales service needs.
type Repository interface {
	CreateQuotation(ctx context.Context, params repository.CreateQuotationParams) (repository.Quotation, error)
	ListQuotations(ctx context.Context) ([]repository.Quotation, error)
	CreateOrder(ctx context.Context, params repository.CreateOrderParams) (repository.Order, error)
	ListOrders(ctx context.Context) ([]repository.Order, error)
	ListUsers(ctx context.Context) ([]repository.User, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateQuotation(ctx context.Context, userID uuid.UUID, req transport.CreateQuotationRequest) (transport.QuotationResponse, error) {
	q, err := s.repo.CreateQuotation(ctx, repository.CreateQuotationParams{
		LeadID:     req.LeadID,
		UserID:     userID,
		Status:     req.Status,
		TotalCents: req.TotalCents,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		return transport.QuotationResponse{}, apperr.Unavailable("quotation store unavailable", err).WithOp("sales.CreateQuotation")
	}
	return toQuotationResponse(q, s.now()), nil
}

func (s *Service) ListQuotations(ctx context.Context) ([]transport.QuotationResponse, error) {
	quotations, err := s.repo.ListQuotations(ctx)
	if err != nil {
		return nil, apperr.Unavailable("quotation store unavailable", err).WithOp("sales.ListQuotations")
	}

	now := s.now()
	items := make([]transport.QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		items = append(items, toQuotationResponse(q, now))
	}
	return items, nil
}

func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	o, err := s.repo.CreateOrder(ctx, repository.CreateOrderParams{
		UserID:     userID,
		TotalCents: req.TotalCents,
	})
	if err != nil {
		return transport.OrderResponse{}, apperr.Unavailable("order store unavailable", err).WithOp("sales.CreateOrder")
	}
	return toOrderResponse(o), nil
}

func (s *Service) ListOrders(ctx context.Context) ([]transport.OrderResponse, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, apperr.Unavailable("order store unavailable", err).WithOp("sales.ListOrders")
	}

	items := make([]transport.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o))
	}
	return items, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]transport.UserResponse, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Unavailable("user directory unavailable", err).WithOp("sales.ListUsers")
	}

	items := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, transport.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return items, nil
}

// toQuotationResponse derives expiry from valid_until at read time. The
// stored status is never rewritten.
func toQuotationResponse(q repository.Quotation, now time.Time) transport.QuotationResponse {
	return transport.QuotationResponse{
		ID:         q.ID,
		Code:       q.Code,
		LeadID:     q.LeadID,
		UserID:     q.UserID,
		Status:     q.Status,
		TotalCents: q.TotalCents,
		ValidUntil: q.ValidUntil,
		IsExpired:  q.ValidUntil.Before(now),
		CreatedAt:  q.CreatedAt,
	}
}

func toOrderResponse(o repository.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:         o.ID,
		Code:       o.Code,
		UserID:     o.UserID,
		TotalCents: o.TotalCents,
		CreatedAt:  o.CreatedAt,
	}
}

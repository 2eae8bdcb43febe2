package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/sales/repository"
	"crm_backend/internal/sales/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	quotations []repository.Quotation
	orders     []repository.Order
	users      []repository.User
	listErr    error
}

func (f *fakeRepo) CreateQuotation(ctx context.Context, params repository.CreateQuotationParams) (repository.Quotation, error) {
	q := repository.Quotation{
		ID:         uuid.New(),
		Code:       "QT-0001",
		LeadID:     params.LeadID,
		UserID:     params.UserID,
		Status:     params.Status,
		TotalCents: params.TotalCents,
		ValidUntil: params.ValidUntil,
		CreatedAt:  time.Now(),
	}
	f.quotations = append(f.quotations, q)
	return q, nil
}

func (f *fakeRepo) ListQuotations(ctx context.Context) ([]repository.Quotation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.quotations, nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, params repository.CreateOrderParams) (repository.Order, error) {
	o := repository.Order{ID: uuid.New(), Code: "OR-0001", UserID: params.UserID, TotalCents: params.TotalCents, CreatedAt: time.Now()}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeRepo) ListOrders(ctx context.Context) ([]repository.Order, error) {
	return f.orders, nil
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]repository.User, error) {
	return f.users, nil
}

func TestQuotationExpiryIsRecomputedAtReadTime(t *testing.T) {
	repo := &fakeRepo{
		quotations: []repository.Quotation{
			{ID: uuid.New(), Status: repository.QuotationSent, ValidUntil: time.Now().Add(-time.Hour)},
			{ID: uuid.New(), Status: repository.QuotationSent, ValidUntil: time.Now().Add(time.Hour)},
		},
	}
	svc := NewService(repo)

	items, err := svc.ListQuotations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !items[0].IsExpired {
		t.Fatal("quotation past valid_until must report expired")
	}
	if items[0].Status != repository.QuotationSent {
		t.Fatal("stored status must stay untouched")
	}
	if items[1].IsExpired {
		t.Fatal("quotation within valid_until must not report expired")
	}
}

func TestListQuotationsStoreUnavailable(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection refused")}
	svc := NewService(repo)

	_, err := svc.ListQuotations(context.Background())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCreateQuotationKeepsOwner(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	owner := uuid.New()

	resp, err := svc.CreateQuotation(context.Background(), owner, transport.CreateQuotationRequest{
		Status:     repository.QuotationDraft,
		TotalCents: 125_000,
		ValidUntil: time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.UserID != owner {
		t.Fatal("quotation must record the creating user")
	}
	if resp.TotalCents != 125_000 {
		t.Fatalf("expected amount preserved, got %d", resp.TotalCents)
	}
}

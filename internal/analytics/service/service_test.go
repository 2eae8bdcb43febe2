package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/analytics/aggregator"
	"crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeSource struct {
	leads      []aggregator.Lead
	quotations []aggregator.Quotation
	orders     []aggregator.Order
	users      []aggregator.User
	ordersErr  error
}

func (f *fakeSource) ListLeads(ctx context.Context) ([]aggregator.Lead, error) {
	return f.leads, nil
}

func (f *fakeSource) ListQuotations(ctx context.Context) ([]aggregator.Quotation, error) {
	return f.quotations, nil
}

func (f *fakeSource) ListOrders(ctx context.Context) ([]aggregator.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeSource) ListUsers(ctx context.Context) ([]aggregator.User, error) {
	return f.users, nil
}

type fakeConfig struct {
	zeroFill bool
	period   time.Duration
}

func (f fakeConfig) GetTrendZeroFill() bool         { return f.zeroFill }
func (f fakeConfig) GetGrowthPeriod() time.Duration { return f.period }

func TestSnapshotFailureFailsTheQuery(t *testing.T) {
	source := &fakeSource{ordersErr: errors.New("connection refused")}
	svc := NewService(source, fakeConfig{period: 30 * 24 * time.Hour})

	_, err := svc.KPIs(context.Background())
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("partial snapshots must not be reported over, got %v", err)
	}
}

func TestKPIsOverLoadedSnapshot(t *testing.T) {
	source := &fakeSource{
		leads: []aggregator.Lead{
			{ID: uuid.New(), Stage: domain.StageWon},
			{ID: uuid.New(), Stage: domain.StageNew},
		},
		orders: []aggregator.Order{
			{ID: uuid.New(), UserID: uuid.New(), TotalCents: 250_00, CreatedAt: time.Now()},
		},
	}
	svc := NewService(source, fakeConfig{period: 30 * 24 * time.Hour})

	m, err := svc.KPIs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ConversionRate != 50 {
		t.Fatalf("expected 50%%, got %v", m.ConversionRate)
	}
	if m.TotalRevenueCents != 250_00 {
		t.Fatalf("expected revenue 25000, got %d", m.TotalRevenueCents)
	}
}

func TestRevenueTrendsHonorsZeroFillSetting(t *testing.T) {
	source := &fakeSource{
		orders: []aggregator.Order{
			{ID: uuid.New(), UserID: uuid.New(), TotalCents: 100_00, CreatedAt: time.Now().Add(-48 * time.Hour)},
		},
	}

	sparse, err := NewService(source, fakeConfig{zeroFill: false}).RevenueTrends(context.Background(), aggregator.Range7d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sparse) != 1 {
		t.Fatalf("expected a sparse series, got %d points", len(sparse))
	}

	filled, err := NewService(source, fakeConfig{zeroFill: true}).RevenueTrends(context.Background(), aggregator.Range7d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filled) != 8 {
		t.Fatalf("expected a contiguous 8-day series, got %d points", len(filled))
	}
}

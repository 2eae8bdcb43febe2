// Package service loads the reporting snapshot and runs the aggregator
// over it. The service holds no state between calls.
package service

import (
	"context"
	"time"

	"crm_backend/internal/analytics/aggregator"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"

	"golang.org/x/sync/errgroup"
)

// SnapshotSource provides the four reporting collections.
type SnapshotSource interface {
	ListLeads(ctx context.Context) ([]aggregator.Lead, error)
	ListQuotations(ctx context.Context) ([]aggregator.Quotation, error)
	ListOrders(ctx context.Context) ([]aggregator.Order, error)
	ListUsers(ctx context.Context) ([]aggregator.User, error)
}

type Service struct {
	source SnapshotSource
	cfg    config.AnalyticsConfig
	now    func() time.Time
}

func NewService(source SnapshotSource, cfg config.AnalyticsConfig) *Service {
	return &Service{source: source, cfg: cfg, now: time.Now}
}

// snapshot fetches the four collections concurrently. A failure in any
// fetch fails the whole snapshot; analytics never reports over partial
// data.
func (s *Service) snapshot(ctx context.Context) (aggregator.Snapshot, error) {
	snap := aggregator.Snapshot{Now: s.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Leads, err = s.source.ListLeads(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Quotations, err = s.source.ListQuotations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Orders, err = s.source.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Users, err = s.source.ListUsers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return aggregator.Snapshot{}, apperr.Unavailable("record store unavailable", err).WithOp("analytics.snapshot")
	}
	return snap, nil
}

func (s *Service) KPIs(ctx context.Context) (aggregator.KPIMetrics, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregator.KPIMetrics{}, err
	}
	return aggregator.KPIs(snap, s.cfg.GetGrowthPeriod()), nil
}

func (s *Service) LeadAnalytics(ctx context.Context) (aggregator.LeadAnalytics, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregator.LeadAnalytics{}, err
	}
	return aggregator.Leads(snap), nil
}

func (s *Service) RevenueTrends(ctx context.Context, rng string) ([]aggregator.TrendPoint, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.RevenueTrends(snap, rng, s.cfg.GetTrendZeroFill())
}

func (s *Service) QuotationAnalytics(ctx context.Context) (aggregator.QuotationAnalytics, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregator.QuotationAnalytics{}, err
	}
	return aggregator.Quotations(snap), nil
}

func (s *Service) TeamPerformance(ctx context.Context) ([]aggregator.TeamMember, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.Team(snap), nil
}

func (s *Service) ConversionFunnel(ctx context.Context) (aggregator.ConversionFunnel, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return aggregator.ConversionFunnel{}, err
	}
	return aggregator.FunnelFromSnapshot(snap), nil
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]aggregator.FeedItem, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregator.Recent(snap, limit), nil
}

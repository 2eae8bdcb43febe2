package aggregator

import (
	"time"

	"crm_backend/internal/leads/domain"
)

// KPIMetrics is the dashboard summary. Money values are integer cents
// except the accepted-quotation mean, which keeps fractional cents.
type KPIMetrics struct {
	TotalLeads           int     `json:"totalLeads"`
	ActiveLeads          int     `json:"activeLeads"`
	WonLeads             int     `json:"wonLeads"`
	ConversionRate       float64 `json:"conversionRate"`
	TotalRevenueCents    int64   `json:"totalRevenueCents"`
	AverageDealSizeCents float64 `json:"averageDealSizeCents"`
	RevenueGrowth        float64 `json:"revenueGrowth"`
}

// KPIs computes the summary metrics. growthPeriod sets the comparison
// window for revenue growth: current period [now-p, now) against the
// prior period of equal length.
func KPIs(s Snapshot, growthPeriod time.Duration) KPIMetrics {
	m := KPIMetrics{TotalLeads: len(s.Leads)}

	for _, lead := range s.Leads {
		if !domain.IsClosed(lead.Stage) {
			m.ActiveLeads++
		}
		if lead.Stage == domain.StageWon {
			m.WonLeads++
		}
	}
	if m.TotalLeads > 0 {
		m.ConversionRate = float64(m.WonLeads) / float64(m.TotalLeads) * 100
	}

	for _, order := range s.Orders {
		m.TotalRevenueCents += order.TotalCents
	}

	var acceptedSum int64
	var acceptedCount int
	for _, q := range s.Quotations {
		if q.Status == QuotationAccepted {
			acceptedSum += q.TotalCents
			acceptedCount++
		}
	}
	if acceptedCount > 0 {
		m.AverageDealSizeCents = float64(acceptedSum) / float64(acceptedCount)
	}

	m.RevenueGrowth = revenueGrowth(s, growthPeriod)
	return m
}

// revenueGrowth is the percentage change of the current period against
// the prior period of equal length. A zero prior period yields 0, never
// a division blowup.
func revenueGrowth(s Snapshot, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	currentStart := s.Now.Add(-period)
	priorStart := s.Now.Add(-2 * period)

	var current, prior int64
	for _, order := range s.Orders {
		switch {
		case !order.CreatedAt.Before(currentStart):
			current += order.TotalCents
		case !order.CreatedAt.Before(priorStart):
			prior += order.TotalCents
		}
	}
	if prior == 0 {
		return 0
	}
	return float64(current-prior) / float64(prior) * 100
}

package aggregator

import "time"

// Quotation statuses as seen by reporting. Draft and sent quotations
// past their validity window report as expired regardless of the stored
// status.
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
	QuotationExpired  = "expired"
)

var quotationStatuses = []string{
	QuotationDraft,
	QuotationSent,
	QuotationAccepted,
	QuotationRejected,
	QuotationExpired,
}

type StatusBucket struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	TotalCents int64  `json:"totalCents"`
}

type QuotationAnalytics struct {
	ByStatus        []StatusBucket `json:"byStatus"`
	TotalQuotations int            `json:"totalQuotations"`
	TotalValueCents int64          `json:"totalValueCents"`
}

// Quotations groups quotations by effective status. Expiry is derived
// from validUntil against the snapshot time on every call; a stale
// stored flag is never trusted.
func Quotations(s Snapshot) QuotationAnalytics {
	byStatus := map[string]*StatusBucket{}
	for _, status := range quotationStatuses {
		byStatus[status] = &StatusBucket{Status: status}
	}

	result := QuotationAnalytics{TotalQuotations: len(s.Quotations)}
	for _, q := range s.Quotations {
		bucket := byStatus[effectiveStatus(q, s.Now)]
		bucket.Count++
		bucket.TotalCents += q.TotalCents
		result.TotalValueCents += q.TotalCents
	}

	result.ByStatus = make([]StatusBucket, 0, len(quotationStatuses))
	for _, status := range quotationStatuses {
		result.ByStatus = append(result.ByStatus, *byStatus[status])
	}
	return result
}

// IsExpired reports whether a quotation's validity window has passed.
func IsExpired(q Quotation, now time.Time) bool {
	return q.ValidUntil.Before(now)
}

func effectiveStatus(q Quotation, now time.Time) string {
	if (q.Status == QuotationDraft || q.Status == QuotationSent) && IsExpired(q, now) {
		return QuotationExpired
	}
	return q.Status
}

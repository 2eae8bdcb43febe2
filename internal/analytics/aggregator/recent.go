package aggregator

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Feed item kinds.
const (
	FeedLead      = "lead"
	FeedQuotation = "quotation"
	FeedOrder     = "order"
)

type FeedItem struct {
	Kind       string    `json:"kind"`
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	TotalCents int64     `json:"totalCents,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Recent merges leads, quotations and orders into one feed sorted by
// creation time descending, truncated to limit. The limit caps the merged
// feed, not each type.
func Recent(s Snapshot, limit int) []FeedItem {
	if limit < 1 {
		return []FeedItem{}
	}

	items := make([]FeedItem, 0, len(s.Leads)+len(s.Quotations)+len(s.Orders))
	for _, lead := range s.Leads {
		items = append(items, FeedItem{
			Kind:      FeedLead,
			ID:        lead.ID,
			Code:      lead.Code,
			Title:     lead.Name,
			Timestamp: lead.CreatedAt,
		})
	}
	for _, q := range s.Quotations {
		items = append(items, FeedItem{
			Kind:       FeedQuotation,
			ID:         q.ID,
			Code:       q.Code,
			Title:      q.Code,
			TotalCents: q.TotalCents,
			Timestamp:  q.CreatedAt,
		})
	}
	for _, order := range s.Orders {
		items = append(items, FeedItem{
			Kind:       FeedOrder,
			ID:         order.ID,
			Code:       order.Code,
			Title:      order.Code,
			TotalCents: order.TotalCents,
			Timestamp:  order.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

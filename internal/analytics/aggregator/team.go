package aggregator

import (
	"sort"

	"github.com/google/uuid"
)

type TeamMember struct {
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	LeadCount    int       `json:"leadCount"`
	OrderCount   int       `json:"orderCount"`
	RevenueCents int64     `json:"revenueCents"`
}

// Team computes per-user counts over the union of lead owners and order
// owners. A user with orders but no leads still appears; this is a union
// of ownership sets, not a join keyed on leads. Unassigned leads are not
// attributed to anyone.
func Team(s Snapshot) []TeamMember {
	members := map[uuid.UUID]*TeamMember{}
	member := func(id uuid.UUID) *TeamMember {
		m, ok := members[id]
		if !ok {
			m = &TeamMember{UserID: id}
			members[id] = m
		}
		return m
	}

	for _, lead := range s.Leads {
		if lead.AssignedUserID == nil {
			continue
		}
		member(*lead.AssignedUserID).LeadCount++
	}
	for _, order := range s.Orders {
		m := member(order.UserID)
		m.OrderCount++
		m.RevenueCents += order.TotalCents
	}

	names := map[uuid.UUID]string{}
	for _, user := range s.Users {
		names[user.ID] = user.Name
	}

	result := make([]TeamMember, 0, len(members))
	for _, m := range members {
		m.Name = names[m.UserID]
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RevenueCents != result[j].RevenueCents {
			return result[i].RevenueCents > result[j].RevenueCents
		}
		if result[i].LeadCount != result[j].LeadCount {
			return result[i].LeadCount > result[j].LeadCount
		}
		return result[i].Name < result[j].Name
	})
	return result
}

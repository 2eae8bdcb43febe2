package aggregator

import (
	"sort"

	"crm_backend/internal/leads/domain"
)

type StageCount struct {
	Stage string `json:"stage"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type LeadAnalytics struct {
	ByStage    []StageCount  `json:"byStage"`
	BySource   []SourceCount `json:"bySource"`
	TotalLeads int           `json:"totalLeads"`
}

// Leads groups the lead population by stage and by source. The stage
// axis always lists all seven stages in funnel order, zero counts
// included; the grouping key is the raw stage value, the label is
// presentation only. A lead with N sources counts in N source buckets.
func Leads(s Snapshot) LeadAnalytics {
	byStage := map[string]int{}
	bySource := map[string]int{}
	for _, lead := range s.Leads {
		byStage[lead.Stage]++
		for _, source := range lead.Sources {
			bySource[source]++
		}
	}

	result := LeadAnalytics{
		ByStage:    make([]StageCount, 0, len(domain.Stages)),
		BySource:   make([]SourceCount, 0, len(bySource)),
		TotalLeads: len(s.Leads),
	}
	for _, stage := range domain.Stages {
		result.ByStage = append(result.ByStage, StageCount{
			Stage: stage,
			Label: domain.StageLabel(stage),
			Count: byStage[stage],
		})
	}
	for source, count := range bySource {
		result.BySource = append(result.BySource, SourceCount{Source: source, Count: count})
	}
	sort.Slice(result.BySource, func(i, j int) bool {
		if result.BySource[i].Count != result.BySource[j].Count {
			return result.BySource[i].Count > result.BySource[j].Count
		}
		return result.BySource[i].Source < result.BySource[j].Source
	})

	return result
}

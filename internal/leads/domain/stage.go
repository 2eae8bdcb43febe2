// Package domain holds the lead pipeline vocabulary shared across the
// leads bounded context.
package domain

import "strings"

// Pipeline stages. The stage set is a labeled set, not a strict
// progression: any stage may move to any other, so validation checks
// membership only, never adjacency. Leads reopen and get recategorized.
const (
	StageNew         = "new"
	StageContacted   = "contacted"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Stages lists all pipeline stages in canonical funnel order, used for
// deterministic reporting output.
var Stages = []string{
	StageNew,
	StageContacted,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

var knownStages = map[string]struct{}{
	StageNew:         {},
	StageContacted:   {},
	StageQualified:   {},
	StageProposal:    {},
	StageNegotiation: {},
	StageWon:         {},
	StageLost:        {},
}

// IsKnownStage reports whether stage is one of the seven pipeline values.
func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}

// IsClosed reports whether the stage is one of the two terminal labels.
// Terminal here affects reporting only (active lead counts); it does not
// restrict transitions.
func IsClosed(stage string) bool {
	return stage == StageWon || stage == StageLost
}

// StageLabel returns the title-cased display label for a stage. Grouping
// keys stay raw; only presentation uses the label.
func StageLabel(stage string) string {
	if stage == "" {
		return ""
	}
	return strings.ToUpper(stage[:1]) + stage[1:]
}

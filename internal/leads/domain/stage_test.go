package domain

import "testing"

func TestIsKnownStage(t *testing.T) {
	for _, stage := range Stages {
		if !IsKnownStage(stage) {
			t.Fatalf("expected %q to be a known stage", stage)
		}
	}

	for _, stage := range []string{"", "New", "WON", "archived", "qualified "} {
		if IsKnownStage(stage) {
			t.Fatalf("expected %q to be rejected", stage)
		}
	}
}

func TestIsClosed(t *testing.T) {
	if !IsClosed(StageWon) || !IsClosed(StageLost) {
		t.Fatal("won and lost must be closed stages")
	}
	for _, stage := range []string{StageNew, StageContacted, StageQualified, StageProposal, StageNegotiation} {
		if IsClosed(stage) {
			t.Fatalf("stage %q must not be closed", stage)
		}
	}
}

func TestStageLabel(t *testing.T) {
	if got := StageLabel(StageNegotiation); got != "Negotiation" {
		t.Fatalf("expected Negotiation, got %q", got)
	}
	if got := StageLabel(""); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}

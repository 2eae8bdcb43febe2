// Package pipeline moves leads through the sales stages and records every
// transition in the activity ledger.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the persistence surface the stage machine needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (repository.Lead, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
}

// Service owns stage transitions. Transitions are free-form within the
// known stage set; the service guarantees the stage write lands before the
// ledger entry, and publishes a won event exactly once per entry into won.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewService(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// ChangeStage moves a lead to newStage.
//
// Order of operations is load-bearing: validate, persist the stage, then
// append the ledger entry. A failed append after a successful stage write
// leaves a ledger gap which is logged and surfaced via a nil Activity in
// the response; the stage change itself stands.
func (s *Service) ChangeStage(ctx context.Context, leadID, actorID uuid.UUID, newStage string) (transport.StageChangeResponse, error) {
	if !domain.IsKnownStage(newStage) {
		return transport.StageChangeResponse{}, apperr.Validation(fmt.Sprintf("invalid stage: %s", newStage))
	}

	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.StageChangeResponse{}, apperr.NotFound("lead not found")
		}
		return transport.StageChangeResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("pipeline.ChangeStage")
	}

	// Same-stage request is a no-op: no write, no ledger entry, no events.
	if lead.Stage == newStage {
		return transport.StageChangeResponse{
			Lead:    management.ToLeadResponse(lead),
			Changed: false,
		}, nil
	}

	oldStage := lead.Stage
	updated, err := s.repo.UpdateStage(ctx, leadID, newStage)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.StageChangeResponse{}, apperr.NotFound("lead not found")
		}
		return transport.StageChangeResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("pipeline.ChangeStage")
	}

	response := transport.StageChangeResponse{
		Lead:    management.ToLeadResponse(updated),
		Changed: true,
	}

	activity, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:      leadID,
		CreatedBy:   actorID,
		Type:        repository.ActivityTypeStageChange,
		Description: fmt.Sprintf("Stage changed from %s to %s", domain.StageLabel(oldStage), domain.StageLabel(newStage)),
		Metadata: repository.StageChangeMetadata{
			OldStage: oldStage,
			NewStage: newStage,
		}.ToMap(),
	})
	if err != nil {
		s.log.LedgerGap(leadID.String(), "stage_change", err)
	} else {
		activityResponse := management.ToActivityResponse(activity)
		response.Activity = &activityResponse
	}

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		ActorID:   actorID,
		OldStage:  oldStage,
		NewStage:  newStage,
	})

	if newStage == domain.StageWon {
		s.bus.Publish(ctx, events.LeadWon{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			ActorID:   actorID,
			OldStage:  oldStage,
		})
	}

	return response, nil
}

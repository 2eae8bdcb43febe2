// Package activity exposes the append-only activity ledger of a lead.
package activity

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository is the persistence surface the ledger service needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]repository.Activity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append adds one entry to the lead's ledger. Entries are immutable once
// written; there is no update or delete path. The metadata bag must match
// the typed payload of the entry's type.
func (s *Service) Append(ctx context.Context, leadID, actorID uuid.UUID, req transport.CreateActivityRequest) (transport.ActivityResponse, error) {
	metadata, err := repository.ParseActivityMetadata(req.Type, req.Metadata)
	if err != nil {
		return transport.ActivityResponse{}, apperr.Validation(fmt.Sprintf("invalid metadata: %v", err))
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ActivityResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ActivityResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("activity.Append")
	}

	created, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:      leadID,
		CreatedBy:   actorID,
		Type:        req.Type,
		Description: req.Description,
		Metadata:    metadata,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return transport.ActivityResponse{}, apperr.Unavailable("activity store unavailable", err).WithOp("activity.Append")
	}

	return management.ToActivityResponse(created), nil
}

// List returns the lead's ledger newest first, with private entries of
// other users silently omitted. Visibility is decided at read time, so a
// requester always sees their own private notes.
func (s *Service) List(ctx context.Context, leadID, requesterID uuid.UUID) (transport.ActivitiesResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ActivitiesResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ActivitiesResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("activity.List")
	}

	activities, err := s.repo.ListActivities(ctx, leadID)
	if err != nil {
		return transport.ActivitiesResponse{}, apperr.Unavailable("activity store unavailable", err).WithOp("activity.List")
	}

	items := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		if a.IsPrivate && a.CreatedBy != requesterID {
			continue
		}
		items = append(items, management.ToActivityResponse(a))
	}

	return transport.ActivitiesResponse{Items: items}, nil
}

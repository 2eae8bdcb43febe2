// Package management covers lead intake and record upkeep: create, read,
// update, assign, rate, delete.
package management

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the persistence surface lead management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
}

type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewService(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create registers a lead from the authenticated surface. New leads always
// enter the pipeline at the new stage.
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	normalized, err := phone.NormalizeE164(req.Phone)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation("invalid phone number")
	}
	handle := phone.MessagingHandle(normalized)

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:             req.Name,
		Email:            optionalString(req.Email),
		Phone:            normalized,
		MessagingHandle:  &handle,
		Sources:          req.Sources,
		ProductInterests: req.ProductInterests,
		Tags:             req.Tags,
		Stage:            domain.StageNew,
		AssignedUserID:   req.AssignedUserID,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.Create")
	}

	s.publishCreated(ctx, lead)
	return ToLeadResponse(lead), nil
}

// CreatePublic registers a lead from the unauthenticated intake form. The
// free-text message, when present, becomes the first ledger entry.
func (s *Service) CreatePublic(ctx context.Context, req transport.PublicLeadRequest) (transport.LeadResponse, error) {
	normalized, err := phone.NormalizeE164(req.Phone)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation("invalid phone number")
	}
	handle := phone.MessagingHandle(normalized)

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:             req.Name,
		Email:            optionalString(req.Email),
		Phone:            normalized,
		MessagingHandle:  &handle,
		Sources:          []string{req.Source},
		ProductInterests: req.ProductInterests,
		Stage:            domain.StageNew,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.CreatePublic")
	}

	if req.Message != "" {
		_, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			LeadID:      lead.ID,
			CreatedBy:   uuid.Nil,
			Type:        repository.ActivityTypeNote,
			Description: req.Message,
		})
		if err != nil {
			s.log.LedgerGap(lead.ID.String(), "public_intake_message", err)
		}
	}

	s.publishCreated(ctx, lead)
	return ToLeadResponse(lead), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.GetByID")
	}
	return ToLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	params := repository.ListParams{Search: req.Search}

	if req.Stage != "" {
		if !domain.IsKnownStage(req.Stage) {
			return transport.LeadListResponse{}, apperr.Validation(fmt.Sprintf("invalid stage: %s", req.Stage))
		}
		stage := req.Stage
		params.Stage = &stage
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid dateFrom")
		}
		params.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation("invalid dateTo")
		}
		// DateTo is inclusive on the calendar day.
		end := to.AddDate(0, 0, 1)
		params.DateTo = &end
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	params.Offset = (page - 1) * pageSize
	params.Limit = pageSize

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.List")
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		Name:             req.Name,
		Sources:          req.Sources,
		ProductInterests: req.ProductInterests,
		ProductSet:       req.ProductInterests != nil,
		Tags:             req.Tags,
		TagsSet:          req.Tags != nil,
	}
	if req.Email != nil {
		params.Email = optionalString(*req.Email)
		params.EmailSet = true
	}
	if req.Phone != nil {
		normalized, err := phone.NormalizeE164(*req.Phone)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation("invalid phone number")
		}
		handle := phone.MessagingHandle(normalized)
		params.Phone = &normalized
		params.MessagingHandle = &handle
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.Update")
	}
	return ToLeadResponse(lead), nil
}

// Assign changes the lead's owner and records the handover in the ledger.
// A nil user unassigns.
func (s *Service) Assign(ctx context.Context, id, actorID uuid.UUID, assignedUserID *uuid.UUID) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.Assign")
	}

	lead, err := s.repo.Update(ctx, id, repository.UpdateLeadParams{
		AssignedUserID:    assignedUserID,
		AssignedUserIDSet: true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.Assign")
	}

	_, err = s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:      id,
		CreatedBy:   actorID,
		Type:        repository.ActivityTypeAssignmentChange,
		Description: "Lead reassigned",
		Metadata: repository.AssignmentChangeMetadata{
			From: current.AssignedUserID,
			To:   assignedUserID,
		}.ToMap(),
	})
	if err != nil {
		s.log.LedgerGap(id.String(), "assignment_change", err)
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       id,
		PreviousUser: current.AssignedUserID,
		NewUser:      assignedUserID,
		AssignedByID: actorID,
	})

	return ToLeadResponse(lead), nil
}

// Rate sets the 1-5 star rating; a nil rating clears it.
func (s *Service) Rate(ctx context.Context, id uuid.UUID, rating *int) (transport.LeadResponse, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return transport.LeadResponse{}, apperr.Validation("rating must be between 1 and 5")
	}

	lead, err := s.repo.UpdateRating(ctx, id, rating)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("management.Rate")
	}
	return ToLeadResponse(lead), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		return apperr.Unavailable("lead store unavailable", err).WithOp("management.Delete")
	}
	return nil
}

func (s *Service) publishCreated(ctx context.Context, lead repository.Lead) {
	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		Code:           lead.Code,
		AssignedUserID: lead.AssignedUserID,
		Sources:        lead.Sources,
		Name:           lead.Name,
		Phone:          lead.Phone,
		Email:          email,
	})
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

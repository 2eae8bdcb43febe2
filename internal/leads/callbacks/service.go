// Package callbacks schedules follow-up calls for leads and feeds the
// reminder queue.
package callbacks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the persistence surface the callback service needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateCallback(ctx context.Context, params repository.CreateCallbackParams) (repository.Callback, error)
	GetCallbackByID(ctx context.Context, id uuid.UUID) (repository.Callback, error)
	CompleteCallback(ctx context.Context, id uuid.UUID) (repository.Callback, error)
	ListOpenCallbacks(ctx context.Context, leadID uuid.UUID) ([]repository.Callback, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
}

// ReminderScheduler enqueues a due-time reminder for a callback. A nil
// scheduler disables reminders without touching the scheduling flow.
type ReminderScheduler interface {
	ScheduleCallbackReminder(ctx context.Context, callbackID, leadID uuid.UUID, dueAt time.Time) error
}

type Service struct {
	repo      Repository
	reminders ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
}

func NewService(repo Repository, reminders ReminderScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, reminders: reminders, bus: bus, log: log}
}

// Schedule books a callback for a lead. The callback row is the source of
// truth; the ledger entry and the reminder task follow it and a failure in
// either is logged without undoing the booking.
func (s *Service) Schedule(ctx context.Context, leadID, actorID uuid.UUID, req transport.ScheduleCallbackRequest) (transport.CallbackResponse, error) {
	if req.DueAt.Before(time.Now()) {
		return transport.CallbackResponse{}, apperr.Validation("callback due time is in the past")
	}

	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CallbackResponse{}, apperr.NotFound("lead not found")
		}
		return transport.CallbackResponse{}, apperr.Unavailable("lead store unavailable", err).WithOp("callbacks.Schedule")
	}

	callback, err := s.repo.CreateCallback(ctx, repository.CreateCallbackParams{
		LeadID:    leadID,
		CreatedBy: actorID,
		DueAt:     req.DueAt,
		Notes:     req.Notes,
	})
	if err != nil {
		return transport.CallbackResponse{}, apperr.Unavailable("callback store unavailable", err).WithOp("callbacks.Schedule")
	}

	_, err = s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:      leadID,
		CreatedBy:   actorID,
		Type:        repository.ActivityTypeCallback,
		Description: fmt.Sprintf("Callback scheduled for %s", req.DueAt.Format(time.RFC3339)),
		Metadata: repository.CallbackMetadata{
			CallbackID: callback.ID,
			DueAt:      req.DueAt,
		}.ToMap(),
	})
	if err != nil {
		s.log.LedgerGap(leadID.String(), "callback_scheduled", err)
	}

	if s.reminders != nil {
		if err := s.reminders.ScheduleCallbackReminder(ctx, callback.ID, leadID, req.DueAt); err != nil {
			s.log.Error("callback reminder enqueue failed",
				"callback_id", callback.ID.String(),
				"error", err.Error(),
			)
		}
	}

	s.bus.Publish(ctx, events.CallbackScheduled{
		BaseEvent:  events.NewBaseEvent(),
		CallbackID: callback.ID,
		LeadID:     leadID,
		DueAt:      req.DueAt,
	})

	return management.ToCallbackResponse(callback), nil
}

// Complete marks a callback as handled. Completing twice is harmless.
func (s *Service) Complete(ctx context.Context, leadID, callbackID uuid.UUID) (transport.CallbackResponse, error) {
	callback, err := s.repo.GetCallbackByID(ctx, callbackID)
	if err != nil {
		if errors.Is(err, repository.ErrCallbackNotFound) {
			return transport.CallbackResponse{}, apperr.NotFound("callback not found")
		}
		return transport.CallbackResponse{}, apperr.Unavailable("callback store unavailable", err).WithOp("callbacks.Complete")
	}
	if callback.LeadID != leadID {
		return transport.CallbackResponse{}, apperr.NotFound("callback not found")
	}

	completed, err := s.repo.CompleteCallback(ctx, callbackID)
	if err != nil {
		return transport.CallbackResponse{}, apperr.Unavailable("callback store unavailable", err).WithOp("callbacks.Complete")
	}

	return management.ToCallbackResponse(completed), nil
}

// ListOpen returns a lead's pending callbacks, soonest first.
func (s *Service) ListOpen(ctx context.Context, leadID uuid.UUID) ([]transport.CallbackResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, apperr.Unavailable("lead store unavailable", err).WithOp("callbacks.ListOpen")
	}

	callbacks, err := s.repo.ListOpenCallbacks(ctx, leadID)
	if err != nil {
		return nil, apperr.Unavailable("callback store unavailable", err).WithOp("callbacks.ListOpen")
	}

	items := make([]transport.CallbackResponse, 0, len(callbacks))
	for _, cb := range callbacks {
		items = append(items, management.ToCallbackResponse(cb))
	}
	return items, nil
}

package callbacks

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	lead     repository.Lead
	getErr   error
	callback repository.Callback

	createErr   error
	activityErr error

	activityCalls int
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.getErr != nil {
		return repository.Lead{}, f.getErr
	}
	return f.lead, nil
}

func (f *fakeRepo) CreateCallback(ctx context.Context, params repository.CreateCallbackParams) (repository.Callback, error) {
	if f.createErr != nil {
		return repository.Callback{}, f.createErr
	}
	f.callback = repository.Callback{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		CreatedBy: params.CreatedBy,
		DueAt:     params.DueAt,
		Notes:     params.Notes,
		CreatedAt: time.Now(),
	}
	return f.callback, nil
}

func (f *fakeRepo) GetCallbackByID(ctx context.Context, id uuid.UUID) (repository.Callback, error) {
	if f.callback.ID != id {
		return repository.Callback{}, repository.ErrCallbackNotFound
	}
	return f.callback, nil
}

func (f *fakeRepo) CompleteCallback(ctx context.Context, id uuid.UUID) (repository.Callback, error) {
	if f.callback.ID != id {
		return repository.Callback{}, repository.ErrCallbackNotFound
	}
	if !f.callback.Completed {
		now := time.Now()
		f.callback.Completed = true
		f.callback.CompletedAt = &now
	}
	return f.callback, nil
}

func (f *fakeRepo) ListOpenCallbacks(ctx context.Context, leadID uuid.UUID) ([]repository.Callback, error) {
	if f.callback.ID != uuid.Nil && !f.callback.Completed {
		return []repository.Callback{f.callback}, nil
	}
	return []repository.Callback{}, nil
}

func (f *fakeRepo) CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error) {
	f.activityCalls++
	if f.activityErr != nil {
		return repository.Activity{}, f.activityErr
	}
	return repository.Activity{ID: uuid.New(), Type: params.Type}, nil
}

type fakeScheduler struct {
	calls int
	err   error
}

func (f *fakeScheduler) ScheduleCallbackReminder(ctx context.Context, callbackID, leadID uuid.UUID, dueAt time.Time) error {
	f.calls++
	return f.err
}

type nopBus struct{}

func (nopBus) Publish(ctx context.Context, event events.Event)           {}
func (nopBus) PublishSync(ctx context.Context, event events.Event) error { return nil }
func (nopBus) Subscribe(eventName string, handler events.Handler)        {}

func TestScheduleRejectsPastDueTime(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := NewService(repo, nil, nopBus{}, logger.New("development"))

	_, err := svc.Schedule(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleCallbackRequest{
		DueAt: time.Now().Add(-time.Hour),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScheduleCreatesCallbackAndReminder(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New()}}
	scheduler := &fakeScheduler{}
	svc := NewService(repo, scheduler, nopBus{}, logger.New("development"))

	due := time.Now().Add(2 * time.Hour)
	resp, err := svc.Schedule(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleCallbackRequest{
		DueAt: due,
		Notes: "prefers afternoon",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Completed {
		t.Fatal("new callback must not be completed")
	}
	if scheduler.calls != 1 {
		t.Fatalf("expected one reminder enqueue, got %d", scheduler.calls)
	}
	if repo.activityCalls != 1 {
		t.Fatalf("expected one ledger entry, got %d", repo.activityCalls)
	}
}

func TestScheduleSurvivesLedgerAndReminderFailure(t *testing.T) {
	repo := &fakeRepo{
		lead:        repository.Lead{ID: uuid.New()},
		activityErr: errors.New("insert failed"),
	}
	scheduler := &fakeScheduler{err: errors.New("redis down")}
	svc := NewService(repo, scheduler, nopBus{}, logger.New("development"))

	resp, err := svc.Schedule(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleCallbackRequest{
		DueAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("booking must stand when side channels fail, got %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Fatal("expected a stored callback")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := NewService(repo, nil, nopBus{}, logger.New("development"))

	created, err := svc.Schedule(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleCallbackRequest{
		DueAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.Complete(context.Background(), repo.lead.ID, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Complete(context.Background(), repo.lead.ID, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Completed {
		t.Fatal("expected completed callback")
	}
	if first.CompletedAt == nil || second.CompletedAt == nil || !first.CompletedAt.Equal(*second.CompletedAt) {
		t.Fatal("repeat completion must keep the original completion time")
	}
}

func TestCompleteWrongLead(t *testing.T) {
	repo := &fakeRepo{lead: repository.Lead{ID: uuid.New()}}
	svc := NewService(repo, nil, nopBus{}, logger.New("development"))

	created, err := svc.Schedule(context.Background(), repo.lead.ID, uuid.New(), transport.ScheduleCallbackRequest{
		DueAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Complete(context.Background(), uuid.New(), created.ID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for mismatched lead, got %v", err)
	}
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type fakeRepo struct {
	callback    repository.Callback
	getErr      error
	activityErr error

	appended []repository.CreateActivityParams
}

func (f *fakeRepo) GetCallbackByID(ctx context.Context, id uuid.UUID) (repository.Callback, error) {
	if f.getErr != nil {
		return repository.Callback{}, f.getErr
	}
	return f.callback, nil
}

func (f *fakeRepo) CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error) {
	if f.activityErr != nil {
		return repository.Activity{}, f.activityErr
	}
	f.appended = append(f.appended, params)
	return repository.Activity{ID: uuid.New(), Type: params.Type}, nil
}

func newTestHandler(t *testing.T, repo *fakeRepo) *reminderHandler {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return newReminderHandler(repo, rdb, logger.New("development"))
}

func reminderTask(t *testing.T, callbackID, leadID uuid.UUID) *asynq.Task {
	t.Helper()
	task, err := NewCallbackReminderTask(callbackID, leadID, time.Now())
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func TestReminderAppendsDueNoticeOnce(t *testing.T) {
	callbackID := uuid.New()
	leadID := uuid.New()
	repo := &fakeRepo{
		callback: repository.Callback{ID: callbackID, LeadID: leadID, DueAt: time.Now()},
	}
	handler := newTestHandler(t, repo)
	task := reminderTask(t, callbackID, leadID)

	if err := handler.handle(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected one due notice, got %d", len(repo.appended))
	}
	if repo.appended[0].Type != repository.ActivityTypeEvent {
		t.Fatalf("expected event entry, got %q", repo.appended[0].Type)
	}
	if repo.appended[0].CreatedBy != uuid.Nil {
		t.Fatal("system entries have no acting user")
	}

	// A redelivered task must not append a second notice.
	if err := handler.handle(context.Background(), task); err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("redelivery must dedupe, got %d notices", len(repo.appended))
	}
}

func TestReminderSkipsCompletedCallback(t *testing.T) {
	callbackID := uuid.New()
	repo := &fakeRepo{
		callback: repository.Callback{ID: callbackID, LeadID: uuid.New(), Completed: true},
	}
	handler := newTestHandler(t, repo)

	if err := handler.handle(context.Background(), reminderTask(t, callbackID, repo.callback.LeadID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.appended) != 0 {
		t.Fatal("completed callbacks must not get a due notice")
	}
}

func TestReminderSkipsVanishedCallback(t *testing.T) {
	repo := &fakeRepo{getErr: repository.ErrCallbackNotFound}
	handler := newTestHandler(t, repo)

	if err := handler.handle(context.Background(), reminderTask(t, uuid.New(), uuid.New())); err != nil {
		t.Fatalf("vanished callback should not error the task: %v", err)
	}
}

func TestReminderReleasesGuardOnAppendFailure(t *testing.T) {
	callbackID := uuid.New()
	repo := &fakeRepo{
		callback:    repository.Callback{ID: callbackID, LeadID: uuid.New(), DueAt: time.Now()},
		activityErr: errors.New("insert failed"),
	}
	handler := newTestHandler(t, repo)
	task := reminderTask(t, callbackID, repo.callback.LeadID)

	if err := handler.handle(context.Background(), task); err == nil {
		t.Fatal("expected error when the append fails")
	}

	// The retry must be able to append after the failure.
	repo.activityErr = nil
	if err := handler.handle(context.Background(), task); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if len(repo.appended) != 1 {
		t.Fatalf("expected the retry to append, got %d", len(repo.appended))
	}
}

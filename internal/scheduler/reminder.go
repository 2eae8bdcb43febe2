package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const reminderDedupeTTL = 24 * time.Hour

type reminderHandler struct {
	repo ReminderRepository
	rdb  redis.UniversalClient
	log  *logger.Logger
}

func newReminderHandler(repo ReminderRepository, rdb redis.UniversalClient, log *logger.Logger) *reminderHandler {
	return &reminderHandler{repo: repo, rdb: rdb, log: log}
}

// handle appends the "callback due" notice for one callback. Completed
// callbacks are skipped; a redis SET NX guard keeps retried or
// re-enqueued tasks from appending the notice twice.
func (h *reminderHandler) handle(ctx context.Context, task *asynq.Task) error {
	var payload CallbackReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode reminder payload: %w", asynq.SkipRetry)
	}

	callback, err := h.repo.GetCallbackByID(ctx, payload.CallbackID)
	if err != nil {
		if errors.Is(err, repository.ErrCallbackNotFound) {
			return nil
		}
		return fmt.Errorf("load callback: %w", err)
	}
	if callback.Completed {
		return nil
	}

	acquired, err := h.rdb.SetNX(ctx, dedupeKey(payload.CallbackID), 1, reminderDedupeTTL).Result()
	if err != nil {
		return fmt.Errorf("reminder dedupe: %w", err)
	}
	if !acquired {
		return nil
	}

	_, err = h.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:      callback.LeadID,
		CreatedBy:   uuid.Nil,
		Type:        repository.ActivityTypeEvent,
		Description: "Callback due",
		Metadata: repository.EventMetadata{
			CallbackID: &callback.ID,
			DueAt:      &callback.DueAt,
		}.ToMap(),
	})
	if err != nil {
		// Release the guard so the retry can append.
		h.rdb.Del(ctx, dedupeKey(payload.CallbackID))
		return fmt.Errorf("append due notice: %w", err)
	}

	h.log.Info("callback reminder delivered",
		"callback_id", callback.ID.String(),
		"lead_id", callback.LeadID.String(),
	)
	return nil
}

func dedupeKey(callbackID uuid.UUID) string {
	return "callback_reminder:" + callbackID.String()
}

// Package scheduler carries the callback reminder pipeline: task
// definitions, the enqueue client and the worker.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskCallbackReminder fires when a scheduled callback comes due.
const TaskCallbackReminder = "callbacks:reminder"

type CallbackReminderPayload struct {
	CallbackID uuid.UUID `json:"callbackId"`
	LeadID     uuid.UUID `json:"leadId"`
	DueAt      time.Time `json:"dueAt"`
}

func NewCallbackReminderTask(callbackID, leadID uuid.UUID, dueAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(CallbackReminderPayload{
		CallbackID: callbackID,
		LeadID:     leadID,
		DueAt:      dueAt,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCallbackReminder, payload), nil
}

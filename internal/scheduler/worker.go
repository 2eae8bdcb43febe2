package scheduler

import (
	"context"

	"crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// ReminderRepository is the subset of the leads repository the reminder
// handler touches.
type ReminderRepository interface {
	GetCallbackByID(ctx context.Context, id uuid.UUID) (repository.Callback, error)
	CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error)
}

// Worker consumes reminder tasks and appends the due notice to the
// lead's ledger.
type Worker struct {
	server  *asynq.Server
	handler *reminderHandler
}

func NewWorker(cfg config.SchedulerConfig, repo ReminderRepository, rdb redis.UniversalClient, log *logger.Logger) (*Worker, error) {
	opt, err := redisOptFromURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	return &Worker{
		server:  server,
		handler: newReminderHandler(repo, rdb, log),
	}, nil
}

func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskCallbackReminder, w.handler.handle)
	return w.server.Run(mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"crm_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues reminder tasks for processing at their due time.
// It satisfies the callbacks service's ReminderScheduler.
type Client struct {
	asynq *asynq.Client
	queue string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisOptFromURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	return &Client{
		asynq: asynq.NewClient(opt),
		queue: cfg.GetAsynqQueueName(),
	}, nil
}

// ScheduleCallbackReminder enqueues one reminder, processed at dueAt. The
// task id is derived from the callback id so double scheduling collapses
// into one pending task.
func (c *Client) ScheduleCallbackReminder(ctx context.Context, callbackID, leadID uuid.UUID, dueAt time.Time) error {
	task, err := NewCallbackReminderTask(callbackID, leadID, dueAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}

	_, err = c.asynq.EnqueueContext(ctx, task,
		asynq.ProcessAt(dueAt),
		asynq.Queue(c.queue),
		asynq.TaskID("callback_reminder:"+callbackID.String()),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.asynq.Close()
}

func redisOptFromURL(url string) (asynq.RedisClientOpt, error) {
	parsed, err := redis.ParseURL(url)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:     parsed.Addr,
		Username: parsed.Username,
		Password: parsed.Password,
		DB:       parsed.DB,
	}, nil
}

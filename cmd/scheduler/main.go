// Command scheduler runs the callback reminder worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"crm_backend/internal/leads/repository"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.GetEnv())

	if err := run(cfg, log); err != nil {
		log.Error("worker exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.GetRedisURL() == "" {
		return fmt.Errorf("REDIS_URL is required for the reminder worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	redisOpt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	rdb := redis.NewClient(redisOpt)
	defer rdb.Close()

	worker, err := scheduler.NewWorker(cfg, repository.New(pool), rdb, log)
	if err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		worker.Shutdown()
	}()

	log.Info("reminder worker starting", "queue", cfg.GetAsynqQueueName())
	return worker.Run()
}

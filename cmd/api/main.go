// Command api runs the CRM HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/analytics"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/leads"
	"crm_backend/internal/leads/callbacks"
	"crm_backend/internal/sales"
	"crm_backend/internal/scheduler"
	"crm_backend/migrations"
	"crm_backend/platform/config"
	"crm_backend/platform/db"
	"crm_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.GetEnv())

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	bus := events.NewInMemoryBus(log)
	registerCelebration(bus, log)

	var reminders callbacks.ReminderScheduler
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			return fmt.Errorf("scheduler client: %w", err)
		}
		defer client.Close()
		reminders = client
	} else {
		log.Warn("REDIS_URL not set, callback reminders disabled")
	}

	app := &apphttp.App{
		Config:              cfg,
		Logger:              log,
		Health:              db.NewPoolAdapter(pool),
		EventBus:            bus,
		IntakeRatePerMinute: cfg.PublicIntakeRatePerMin,
		Modules: []apphttp.Module{
			leads.New(pool, bus, reminders, log),
			sales.New(pool),
			analytics.New(pool, cfg),
		},
	}

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// registerCelebration binds the won-deal side effect. The pipeline
// publishes at most one won event per transition into won, so the hook
// fires exactly once per win.
func registerCelebration(bus events.Bus, log *logger.Logger) {
	bus.Subscribe("leads.won", events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		won, ok := event.(events.LeadWon)
		if !ok {
			return nil
		}
		log.Info("lead won",
			"lead_id", won.LeadID.String(),
			"actor_id", won.ActorID.String(),
			"from_stage", won.OldStage,
		)
		return nil
	}))
}

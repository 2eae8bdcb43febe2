// Package leads wires the leads bounded context: repository, services,
// handlers and routes.
package leads

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/activity"
	"crm_backend/internal/leads/callbacks"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/pipeline"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
}

// New builds the leads module. The reminder scheduler may be nil, which
// disables callback reminders.
func New(pool *pgxpool.Pool, bus events.Bus, reminders callbacks.ReminderScheduler, log *logger.Logger) *Module {
	repo := repository.New(pool)
	validate := validator.New()

	managementSvc := management.NewService(repo, bus, log)
	pipelineSvc := pipeline.NewService(repo, bus, log)
	activitySvc := activity.NewService(repo)
	callbacksSvc := callbacks.NewService(repo, reminders, bus, log)

	return &Module{
		handler:       handler.New(managementSvc, pipelineSvc, activitySvc, callbacksSvc, validate),
		publicHandler: handler.NewPublicHandler(managementSvc, validate),
	}
}

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.Public.Group("/leads")
	public.POST("", ctx.IntakeRateLimiter.RateLimit(), m.publicHandler.Create)

	leads := ctx.Protected.Group("/leads")
	leads.POST("", m.handler.Create)
	leads.GET("", m.handler.List)
	leads.GET("/:id", m.handler.Get)
	leads.PUT("/:id", m.handler.Update)
	leads.DELETE("/:id", m.handler.Delete)
	leads.PATCH("/:id/stage", m.handler.ChangeStage)
	leads.PUT("/:id/assign", m.handler.Assign)
	leads.PATCH("/:id/rating", m.handler.Rate)
	leads.POST("/:id/activities", m.handler.AppendActivity)
	leads.GET("/:id/activities", m.handler.ListActivities)
	leads.POST("/:id/callbacks", m.handler.ScheduleCallback)
	leads.GET("/:id/callbacks", m.handler.ListOpenCallbacks)
	leads.PATCH("/:id/callbacks/:callbackId/complete", m.handler.CompleteCallback)
}

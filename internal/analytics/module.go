// Package analytics wires the reporting slice: snapshot repository,
// aggregator service and HTTP handlers.
package analytics

import (
	"crm_backend/internal/analytics/handler"
	"crm_backend/internal/analytics/repository"
	"crm_backend/internal/analytics/service"
	apphttp "crm_backend/internal/http"
	"crm_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, cfg config.AnalyticsConfig) *Module {
	repo := repository.New(pool)
	svc := service.NewService(repo, cfg)
	return &Module{handler: handler.New(svc)}
}

func (m *Module) Name() string { return "analytics" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	analytics := ctx.Protected.Group("/analytics")

	analytics.GET("/kpis", m.handler.KPIs)
	analytics.GET("/leads", m.handler.Leads)
	analytics.GET("/revenue", m.handler.Revenue)
	analytics.GET("/quotations", m.handler.Quotations)
	analytics.GET("/team", m.handler.Team)
	analytics.GET("/funnel", m.handler.Funnel)
	analytics.GET("/recent", m.handler.Recent)
}

// Package sales wires quotations, orders and the user directory.
package sales

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/sales/handler"
	"crm_backend/internal/sales/repository"
	"crm_backend/internal/sales/service"
	"crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func New(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.NewService(repo)
	return &Module{handler: handler.New(svc, validator.New())}
}

func (m *Module) Name() string { return "sales" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	protected := ctx.Protected

	protected.GET("/quotations", m.handler.ListQuotations)
	protected.POST("/quotations", m.handler.CreateQuotation)
	protected.GET("/orders", m.handler.ListOrders)
	protected.POST("/orders", m.handler.CreateOrder)
	protected.GET("/users", m.handler.ListUsers)
}

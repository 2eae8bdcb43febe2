// Package handler exposes the analytics queries over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"crm_backend/internal/analytics/aggregator"
	"crm_backend/internal/analytics/service"
	"crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const defaultFeedLimit = 20

type Handler struct {
	service *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) KPIs(c *gin.Context) {
	resp, err := h.service.KPIs(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Leads(c *gin.Context) {
	resp, err := h.service.LeadAnalytics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Revenue(c *gin.Context) {
	rng := c.DefaultQuery("range", aggregator.Range30d)

	resp, err := h.service.RevenueTrends(c.Request.Context(), rng)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"range": rng, "points": resp})
}

func (h *Handler) Quotations(c *gin.Context) {
	resp, err := h.service.QuotationAnalytics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Team(c *gin.Context) {
	resp, err := h.service.TeamPerformance(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

func (h *Handler) Funnel(c *gin.Context) {
	resp, err := h.service.ConversionFunnel(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Recent(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			httpkit.Error(c, http.StatusBadRequest, "limit must be between 1 and 100", nil)
			return
		}
		limit = parsed
	}

	resp, err := h.service.RecentActivity(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

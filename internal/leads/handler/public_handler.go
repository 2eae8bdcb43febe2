package handler

import (
	"net/http"

	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated lead intake endpoint. It is
// mounted behind the intake rate limiter and only exposes creation.
type PublicHandler struct {
	management *management.Service
	validate   *validator.Validator
}

func NewPublicHandler(managementSvc *management.Service, validate *validator.Validator) *PublicHandler {
	return &PublicHandler{management: managementSvc, validate: validate}
}

func (h *PublicHandler) Create(c *gin.Context) {
	var req transport.PublicLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.CreatePublic(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

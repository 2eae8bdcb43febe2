// Package handler exposes the leads bounded context over HTTP.
package handler

import (
	"net/http"

	"crm_backend/internal/leads/activity"
	"crm_backend/internal/leads/callbacks"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/pipeline"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/httpkit"
	"crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	management *management.Service
	pipeline   *pipeline.Service
	activity   *activity.Service
	callbacks  *callbacks.Service
	validate   *validator.Validator
}

func New(
	managementSvc *management.Service,
	pipelineSvc *pipeline.Service,
	activitySvc *activity.Service,
	callbacksSvc *callbacks.Service,
	validate *validator.Validator,
) *Handler {
	return &Handler{
		management: managementSvc,
		pipeline:   pipelineSvc,
		activity:   activitySvc,
		callbacks:  callbacksSvc,
		validate:   validate,
	}
}

func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.Create(c.Request.Context(), id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) Get(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	resp, err := h.management.GetByID(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Update(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.Update(c.Request.Context(), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	if err := h.management.Delete(c.Request.Context(), leadID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ChangeStage(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.ChangeStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.pipeline.ChangeStage(c.Request.Context(), leadID, id.UserID(), req.Stage)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Assign(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	resp, err := h.management.Assign(c.Request.Context(), leadID, id.UserID(), req.AssignedUserID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Rate(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.RateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.Rate(c.Request.Context(), leadID, req.Rating)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AppendActivity(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.activity.Append(c.Request.Context(), leadID, id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ListActivities(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	resp, err := h.activity.List(c.Request.Context(), leadID, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ScheduleCallback(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.ScheduleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.callbacks.Schedule(c.Request.Context(), leadID, id.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) CompleteCallback(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}
	callbackID, err := uuid.Parse(c.Param("callbackId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid callback id", nil)
		return
	}

	resp, err := h.callbacks.Complete(c.Request.Context(), leadID, callbackID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListOpenCallbacks(c *gin.Context) {
	leadID, ok := parseLeadID(c)
	if !ok {
		return
	}

	resp, err := h.callbacks.ListOpen(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": resp})
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return uuid.Nil, false
	}
	return leadID, true
}

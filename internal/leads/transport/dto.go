package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateLeadRequest struct {
	Name             string     `json:"name" validate:"required,min=1,max=200"`
	Email            string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string     `json:"phone" validate:"required,min=5,max=20"`
	Sources          []string   `json:"sources" validate:"required,min=1,dive,min=1,max=50"`
	ProductInterests []string   `json:"productInterests,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags             []string   `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	AssignedUserID   *uuid.UUID `json:"assignedUserId,omitempty"`
}

// PublicLeadRequest is the unauthenticated intake form payload. Assignment
// is never accepted from the public surface.
type PublicLeadRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=200"`
	Email            string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string   `json:"phone" validate:"required,min=5,max=20"`
	Source           string   `json:"source" validate:"required,min=1,max=50"`
	ProductInterests []string `json:"productInterests,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Message          string   `json:"message,omitempty" validate:"max=2000"`
}

type UpdateLeadRequest struct {
	Name             *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Sources          []string `json:"sources,omitempty" validate:"omitempty,min=1,dive,min=1,max=50"`
	ProductInterests []string `json:"productInterests,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Tags             []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

type ChangeStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type AssignLeadRequest struct {
	AssignedUserID *uuid.UUID `json:"assignedUserId" validate:"omitempty"`
}

type RateLeadRequest struct {
	// Rating null clears the rating; otherwise it must be 1-5.
	Rating *int `json:"rating" validate:"omitempty,min=1,max=5"`
}

// CreateActivityRequest appends a ledger entry. Only type is mandatory;
// the description may be empty. The type set is closed because each type
// keys a fixed metadata payload shape.
type CreateActivityRequest struct {
	Type        string         `json:"type" validate:"required,oneof=note call email callback event"`
	Description string         `json:"description" validate:"max=2000"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsPrivate   bool           `json:"isPrivate,omitempty"`
}

type ScheduleCallbackRequest struct {
	DueAt time.Time `json:"dueAt" validate:"required"`
	Notes string    `json:"notes,omitempty" validate:"max=2000"`
}

type ListLeadsRequest struct {
	Stage    string `form:"stage" validate:"omitempty"`
	DateFrom string `form:"dateFrom" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"dateTo" validate:"omitempty,datetime=2006-01-02"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// Response DTOs

type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	Phone            string     `json:"phone"`
	MessagingHandle  *string    `json:"messagingHandle,omitempty"`
	Sources          []string   `json:"sources"`
	ProductInterests []string   `json:"productInterests"`
	Tags             []string   `json:"tags"`
	Stage            string     `json:"stage"`
	StageLabel       string     `json:"stageLabel"`
	Rating           *int       `json:"rating,omitempty"`
	Score            *int       `json:"score,omitempty"`
	LeadType         *string    `json:"leadType,omitempty"`
	AssignedUserID   *uuid.UUID `json:"assignedUserId,omitempty"`
	AgeDays          int        `json:"ageDays"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type ActivityResponse struct {
	ID          uuid.UUID      `json:"id"`
	LeadID      uuid.UUID      `json:"leadId"`
	CreatedBy   uuid.UUID      `json:"createdBy"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsPrivate   bool           `json:"isPrivate"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type ActivitiesResponse struct {
	Items []ActivityResponse `json:"items"`
}

// StageChangeResponse reports the outcome of a stage change. Changed is
// false for the same-stage no-op, in which case Activity is nil.
type StageChangeResponse struct {
	Lead     LeadResponse      `json:"lead"`
	Activity *ActivityResponse `json:"activity,omitempty"`
	Changed  bool              `json:"changed"`
}

type CallbackResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	CreatedBy   uuid.UUID  `json:"createdBy"`
	DueAt       time.Time  `json:"dueAt"`
	Notes       string     `json:"notes,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

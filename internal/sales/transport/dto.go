package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateQuotationRequest struct {
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	Status     string     `json:"status" validate:"required,oneof=draft sent accepted rejected"`
	TotalCents int64      `json:"totalCents" validate:"required,min=1"`
	ValidUntil time.Time  `json:"validUntil" validate:"required"`
}

type CreateOrderRequest struct {
	TotalCents int64 `json:"totalCents" validate:"required,min=1"`
}

type QuotationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	UserID     uuid.UUID  `json:"userId"`
	Status     string     `json:"status"`
	TotalCents int64      `json:"totalCents"`
	ValidUntil time.Time  `json:"validUntil"`
	IsExpired  bool       `json:"isExpired"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type OrderResponse struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	UserID     uuid.UUID `json:"userId"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

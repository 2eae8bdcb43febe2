package management

import (
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
)

// ToLeadResponse maps a stored lead to its API shape. Age in days is
// derived from the creation timestamp at map time, never stored.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:               lead.ID,
		Code:             lead.Code,
		Name:             lead.Name,
		Email:            lead.Email,
		Phone:            lead.Phone,
		MessagingHandle:  lead.MessagingHandle,
		Sources:          emptyIfNil(lead.Sources),
		ProductInterests: emptyIfNil(lead.ProductInterests),
		Tags:             emptyIfNil(lead.Tags),
		Stage:            lead.Stage,
		StageLabel:       domain.StageLabel(lead.Stage),
		Rating:           lead.Rating,
		Score:            lead.Score,
		LeadType:         lead.LeadType,
		AssignedUserID:   lead.AssignedUserID,
		AgeDays:          ageDays(lead.CreatedAt, time.Now()),
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

// ToActivityResponse maps a ledger entry to its API shape.
func ToActivityResponse(activity repository.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:          activity.ID,
		LeadID:      activity.LeadID,
		CreatedBy:   activity.CreatedBy,
		Type:        activity.Type,
		Description: activity.Description,
		Metadata:    activity.Metadata,
		IsPrivate:   activity.IsPrivate,
		CreatedAt:   activity.CreatedAt,
	}
}

// ToCallbackResponse maps a scheduled callback to its API shape.
func ToCallbackResponse(callback repository.Callback) transport.CallbackResponse {
	return transport.CallbackResponse{
		ID:          callback.ID,
		LeadID:      callback.LeadID,
		CreatedBy:   callback.CreatedBy,
		DueAt:       callback.DueAt,
		Notes:       callback.Notes,
		Completed:   callback.Completed,
		CompletedAt: callback.CompletedAt,
		CreatedAt:   callback.CreatedAt,
	}
}

func ageDays(createdAt, now time.Time) int {
	if now.Before(createdAt) {
		return 0
	}
	return int(now.Sub(createdAt).Hours() / 24)
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created (public intake or
// internal entry).
type LeadCreated struct {
	BaseEvent
	LeadID         uuid.UUID  `json:"leadId"`
	Code           string     `json:"code"`
	AssignedUserID *uuid.UUID `json:"assignedUserId,omitempty"`
	Sources        []string   `json:"sources"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStageChanged is published after a stage transition has been persisted
// and its activity entry appended.
type LeadStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	ActorID  uuid.UUID `json:"actorId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
}

func (e LeadStageChanged) EventName() string { return "leads.stage.changed" }

// LeadWon is published exactly once per transition into the won stage from a
// different stage. Subscribers drive the celebration side effect.
type LeadWon struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	ActorID  uuid.UUID `json:"actorId"`
	OldStage string    `json:"oldStage"`
}

func (e LeadWon) EventName() string { return "leads.won" }

// LeadAssigned is published when a lead's assignee changes.
type LeadAssigned struct {
	BaseEvent
	LeadID       uuid.UUID  `json:"leadId"`
	PreviousUser *uuid.UUID `json:"previousUser,omitempty"`
	NewUser      *uuid.UUID `json:"newUser,omitempty"`
	AssignedByID uuid.UUID  `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// CallbackScheduled is published when a callback is created for a lead.
type CallbackScheduled struct {
	BaseEvent
	CallbackID uuid.UUID `json:"callbackId"`
	LeadID     uuid.UUID `json:"leadId"`
	DueAt      time.Time `json:"dueAt"`
}

func (e CallbackScheduled) EventName() string { return "leads.callback.scheduled" }

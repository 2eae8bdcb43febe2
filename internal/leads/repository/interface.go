package repository

import (
	"context"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating *int) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StageWriter persists pipeline stage transitions.
type StageWriter interface {
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error)
}

// ActivityStore manages the append-only activity ledger.
type ActivityStore interface {
	CreateActivity(ctx context.Context, params CreateActivityParams) (Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID) ([]Activity, error)
}

// CallbackStore manages scheduled callbacks.
type CallbackStore interface {
	CreateCallback(ctx context.Context, params CreateCallbackParams) (Callback, error)
	GetCallbackByID(ctx context.Context, id uuid.UUID) (Callback, error)
	CompleteCallback(ctx context.Context, id uuid.UUID) (Callback, error)
	ListOpenCallbacks(ctx context.Context, leadID uuid.UUID) ([]Callback, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	StageWriter
	ActivityStore
	CallbackStore
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)

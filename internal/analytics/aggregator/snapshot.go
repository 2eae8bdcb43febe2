// Package aggregator derives reporting metrics from a snapshot of the
// current lead, quotation and order population. Every function is pure:
// it reads the snapshot, computes, and returns. Nothing is cached or
// mutated, results are recomputed on every call.
package aggregator

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the aggregator's only input: the full current dataset plus
// the observation time. Now drives expiry and trend windows so results
// are reproducible in tests.
type Snapshot struct {
	Now        time.Time
	Leads      []Lead
	Quotations []Quotation
	Orders     []Order
	Users      []User
}

type Lead struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Stage          string
	Sources        []string
	AssignedUserID *uuid.UUID
	CreatedAt      time.Time
}

type Quotation struct {
	ID         uuid.UUID
	Code       string
	UserID     uuid.UUID
	Status     string
	TotalCents int64
	ValidUntil time.Time
	CreatedAt  time.Time
}

type Order struct {
	ID         uuid.UUID
	Code       string
	UserID     uuid.UUID
	TotalCents int64
	CreatedAt  time.Time
}

type User struct {
	ID   uuid.UUID
	Name string
}

package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// toMap serialises a typed metadata struct to map[string]any via a JSON
// round trip, so stored keys exactly match the struct's JSON tags while
// CreateActivityParams.Metadata keeps its map[string]any type.
func toMap(v any) map[string]any {
	b, _ := json.Marshal(v)
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	return out
}

// ActivityMetadata is implemented by every typed payload variant. The
// payload shape is fixed per activity type; writers construct the variant
// struct and store its ToMap() form.
type ActivityMetadata interface {
	ToMap() map[string]any
}

// NoteMetadata is the typed payload for note entries. Notes carry their
// text in the description, so the payload has no fields.
type NoteMetadata struct{}

func (m NoteMetadata) ToMap() map[string]any { return toMap(m) }

// CallMetadata is the typed payload for call entries.
type CallMetadata struct {
	Outcome         string `json:"outcome,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

func (m CallMetadata) ToMap() map[string]any { return toMap(m) }

// EmailMetadata is the typed payload for email entries.
type EmailMetadata struct {
	Subject   string `json:"subject,omitempty"`
	Direction string `json:"direction,omitempty"`
}

func (m EmailMetadata) ToMap() map[string]any { return toMap(m) }

// CallbackMetadata is the typed payload for callback entries.
type CallbackMetadata struct {
	CallbackID uuid.UUID `json:"callback_id"`
	DueAt      time.Time `json:"due_at"`
}

func (m CallbackMetadata) ToMap() map[string]any { return toMap(m) }

// StageChangeMetadata is the typed payload for stage_change entries.
type StageChangeMetadata struct {
	OldStage string `json:"old_stage"`
	NewStage string `json:"new_stage"`
}

func (m StageChangeMetadata) ToMap() map[string]any { return toMap(m) }

// AssignmentChangeMetadata is the typed payload for assignment_change
// entries. A nil side means unassigned.
type AssignmentChangeMetadata struct {
	From *uuid.UUID `json:"from"`
	To   *uuid.UUID `json:"to"`
}

func (m AssignmentChangeMetadata) ToMap() map[string]any { return toMap(m) }

// EventMetadata is the typed payload for system event entries, such as the
// callback due notice.
type EventMetadata struct {
	CallbackID *uuid.UUID `json:"callback_id,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

func (m EventMetadata) ToMap() map[string]any { return toMap(m) }

// ParseActivityMetadata validates a caller-supplied metadata bag against
// the payload shape of the given activity type and returns the normalized
// map. Unknown keys and mistyped values are rejected; an empty bag is
// always accepted.
func ParseActivityMetadata(activityType string, raw map[string]any) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var payload ActivityMetadata
	switch activityType {
	case ActivityTypeNote:
		payload = &NoteMetadata{}
	case ActivityTypeCall:
		payload = &CallMetadata{}
	case ActivityTypeEmail:
		payload = &EmailMetadata{}
	case ActivityTypeCallback:
		payload = &CallbackMetadata{}
	case ActivityTypeStageChange:
		payload = &StageChangeMetadata{}
	case ActivityTypeAssignmentChange:
		payload = &AssignmentChangeMetadata{}
	case ActivityTypeEvent:
		payload = &EventMetadata{}
	default:
		return nil, fmt.Errorf("unknown activity type %q", activityType)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("metadata does not match the %s payload: %w", activityType, err)
	}

	return payload.ToMap(), nil
}

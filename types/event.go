package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultEventSource is recorded when a producer does not name itself.
const DefaultEventSource = "unknown"

// WellnessEvent represents an append-only wellness signal pushed by any
// producer. Event types and sources are an open vocabulary; this layer
// stores them without interpretation.
type WellnessEvent struct {
	// ID is the unique identifier of the event.
	ID uuid.UUID `json:"id" db:"id"`

	// UserID optionally attributes the event to a user.
	UserID *uuid.UUID `json:"userId,omitempty" db:"user_id"`

	// EventType is a producer-defined label, e.g. "overtime" or "pto".
	EventType string `json:"eventType" db:"event_type"`

	// OccurredAt is when the event happened. Defaults to ingestion time.
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`

	// Source names the producing system. Defaults to "unknown".
	Source string `json:"source" db:"source"`

	// Value is an optional numeric payload, e.g. overtime hours.
	Value *float64 `json:"value,omitempty" db:"value"`

	// Metadata is an opaque structured payload, stored verbatim.
	Metadata json.RawMessage `json:"metadata,omitempty" db:"metadata"`

	// CreatedAt is the ingestion timestamp.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

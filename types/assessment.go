package types

import (
	"time"

	"github.com/google/uuid"
)

// Level is a five-point ordinal scale used for mood, stress and workload.
type Level int

// Supported level values, ranked low to high.
const (
	LevelVeryLow Level = iota + 1
	LevelLow
	LevelModerate
	LevelHigh
	LevelVeryHigh
)

// Valid reports whether the level is within the five-point scale.
func (l Level) Valid() bool {
	return l >= LevelVeryLow && l <= LevelVeryHigh
}

// String returns the label used in API responses and prompts.
func (l Level) String() string {
	switch l {
	case LevelVeryLow:
		return "very_low"
	case LevelLow:
		return "low"
	case LevelModerate:
		return "moderate"
	case LevelHigh:
		return "high"
	case LevelVeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

// MaxNotesLength bounds the free-text notes field.
const MaxNotesLength = 2000

// SelfAssessment represents a single self-reported wellbeing check-in.
type SelfAssessment struct {
	// ID is the unique identifier of the assessment.
	ID uuid.UUID `json:"id" db:"id"`

	// UserID identifies the owning user. Assessments are always owned.
	UserID uuid.UUID `json:"userId" db:"user_id"`

	// Mood is the self-reported mood level (1 worst, 5 best).
	Mood Level `json:"mood" db:"mood"`

	// Stress is the self-reported stress level (1 lowest, 5 highest).
	Stress Level `json:"stress" db:"stress"`

	// Workload is the self-reported workload level (1 lightest, 5 heaviest).
	Workload Level `json:"workload" db:"workload"`

	// Notes is optional free text attached by the owner.
	Notes string `json:"notes,omitempty" db:"notes"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent owner edit.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ScoreSample is the aggregation-facing projection of one assessment.
type ScoreSample struct {
	Mood     Level
	Stress   Level
	Workload Level
}

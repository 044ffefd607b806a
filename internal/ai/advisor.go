// Package ai produces short lists of personalized wellbeing
// recommendations from a user's recent assessment history. Two advisors
// implement the same interface: one delegates to an external
// text-generation provider, one is purely rule-based. Callers never branch
// on which is wired.
package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/types"
)

// LookbackDays bounds the assessment window considered for recommendations.
const LookbackDays = 30

// ForwardLimit caps how many assessments are embedded in a provider prompt.
const ForwardLimit = 5

// Recommendation categories.
const (
	CategoryOnboarding      = "onboarding"
	CategoryGeneralAdvice   = "general_advice"
	CategoryStress          = "stress_management"
	CategoryWorkload        = "workload"
	CategoryEmotionalHealth = "emotional_health"
	CategoryMaintenance     = "maintenance"
	CategoryDiagnostic      = "diagnostic"
)

// Recommendation is one personalized suggestion.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Advisor produces recommendations for a user as of a point in time.
// Implementations are total: they always return at least one item and
// recover provider failures internally.
type Advisor interface {
	RecommendationsFor(ctx context.Context, user types.User, asOf time.Time) ([]Recommendation, error)
}

// AssessmentSource supplies the recent assessment window.
type AssessmentSource interface {
	Recent(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]types.SelfAssessment, error)
}

func onboardingRecommendation() Recommendation {
	return Recommendation{
		Title:       "Record your first check-in",
		Description: "There is no assessment history yet. Log a self-assessment so recommendations can be personalized.",
		Category:    CategoryOnboarding,
	}
}

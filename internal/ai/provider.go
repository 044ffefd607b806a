package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wellbeam-hq/apiserver/types"
)

// ProviderAdvisor forwards a bounded window of recent assessments to an
// external text generator and parses its output defensively. Provider
// failures degrade to a single diagnostic recommendation; they are never
// surfaced to the caller.
type ProviderAdvisor struct {
	source    AssessmentSource
	generator TextGenerator
	logger    zerolog.Logger
}

func NewProviderAdvisor(source AssessmentSource, generator TextGenerator, logger zerolog.Logger) *ProviderAdvisor {
	return &ProviderAdvisor{source: source, generator: generator, logger: logger}
}

// RecommendationsFor implements Advisor.
func (a *ProviderAdvisor) RecommendationsFor(ctx context.Context, user types.User, asOf time.Time) ([]Recommendation, error) {
	assessments, err := a.source.Recent(ctx, user.ID, asOf.AddDate(0, 0, -LookbackDays), ForwardLimit)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return []Recommendation{onboardingRecommendation()}, nil
	}

	text, err := a.generator.Generate(ctx, buildPrompt(user, assessments))
	if err != nil {
		a.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("recommendation provider failed")
		return []Recommendation{diagnosticRecommendation(err)}, nil
	}

	parsed, err := parseRecommendations(text)
	if err != nil {
		// Keep whatever the provider said rather than dropping it.
		return []Recommendation{{
			Title:       "General advice",
			Description: strings.TrimSpace(text),
			Category:    CategoryGeneralAdvice,
		}}, nil
	}
	return parsed, nil
}

func buildPrompt(user types.User, assessments []types.SelfAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a workplace wellbeing assistant. %s reported the following self-assessments over the last %d days, newest first. Levels range from 1 (lowest) to 5 (highest).\n\n", user.FullName, LookbackDays)
	for _, a := range assessments {
		fmt.Fprintf(&b, "- %s: mood %d (%s), stress %d (%s), workload %d (%s)",
			a.CreatedAt.Format("2006-01-02"),
			a.Mood, a.Mood, a.Stress, a.Stress, a.Workload, a.Workload)
		if strings.TrimSpace(a.Notes) != "" {
			fmt.Fprintf(&b, ", notes: %q", a.Notes)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with ONLY a JSON array of objects, each with the string fields \"title\", \"description\" and \"category\". No prose, no markdown.")
	return b.String()
}

// parseRecommendations decodes the provider output, tolerating a markdown
// code-fence wrapper.
func parseRecommendations(text string) ([]Recommendation, error) {
	cleaned := stripCodeFence(text)

	var recommendations []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recommendations); err != nil {
		return nil, err
	}
	if len(recommendations) == 0 {
		return nil, errors.New("empty recommendation list")
	}
	return recommendations, nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop a language tag such as ```json.
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func diagnosticRecommendation(err error) Recommendation {
	description := "The recommendation provider could not be reached. Try again later."
	switch {
	case errors.Is(err, ErrMissingAPIKey):
		description = "The recommendation provider is not configured."
	case errors.Is(err, ErrEmptyResponse):
		description = "The recommendation provider returned an empty response."
	case errors.Is(err, context.DeadlineExceeded):
		description = "The recommendation provider timed out."
	}
	return Recommendation{
		Title:       "Recommendations unavailable",
		Description: description,
		Category:    CategoryDiagnostic,
	}
}

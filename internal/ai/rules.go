package ai

import (
	"context"
	"time"

	"github.com/wellbeam-hq/apiserver/types"
)

// ruleWindowLimit bounds how many assessments the rule advisor averages.
const ruleWindowLimit = 500

// RuleAdvisor derives recommendations deterministically from the mean
// mood/stress/workload of the lookback window. It makes no external calls
// and serves all traffic when no provider is configured.
type RuleAdvisor struct {
	source AssessmentSource
}

func NewRuleAdvisor(source AssessmentSource) *RuleAdvisor {
	return &RuleAdvisor{source: source}
}

// RecommendationsFor implements Advisor.
func (a *RuleAdvisor) RecommendationsFor(ctx context.Context, user types.User, asOf time.Time) ([]Recommendation, error) {
	assessments, err := a.source.Recent(ctx, user.ID, asOf.AddDate(0, 0, -LookbackDays), ruleWindowLimit)
	if err != nil {
		return nil, err
	}
	if len(assessments) == 0 {
		return []Recommendation{onboardingRecommendation()}, nil
	}

	var moodSum, stressSum, workloadSum int
	for _, assessment := range assessments {
		moodSum += int(assessment.Mood)
		stressSum += int(assessment.Stress)
		workloadSum += int(assessment.Workload)
	}
	count := float64(len(assessments))
	meanMood := float64(moodSum) / count
	meanStress := float64(stressSum) / count
	meanWorkload := float64(workloadSum) / count

	var recommendations []Recommendation
	if meanStress >= float64(types.LevelHigh) {
		recommendations = append(recommendations, Recommendation{
			Title:       "Bring stress down",
			Description: "Your recent stress levels trend high. Block short recovery breaks and raise persistent stressors with your manager.",
			Category:    CategoryStress,
		})
	}
	if meanWorkload >= float64(types.LevelHigh) {
		recommendations = append(recommendations, Recommendation{
			Title:       "Rebalance your workload",
			Description: "Your workload has been heavy lately. Review your commitments and flag anything that can be deferred or delegated.",
			Category:    CategoryWorkload,
		})
	}
	if meanMood <= float64(types.LevelLow) {
		recommendations = append(recommendations, Recommendation{
			Title:       "Look after your mood",
			Description: "Your mood has trended low. Consider talking to someone you trust and using the emotional-health resources available to you.",
			Category:    CategoryEmotionalHealth,
		})
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, Recommendation{
			Title:       "Keep it up",
			Description: "Your recent check-ins look balanced. Keep the habits that are working for you.",
			Category:    CategoryMaintenance,
		})
	}
	return recommendations, nil
}

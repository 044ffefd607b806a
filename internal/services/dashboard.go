package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/wellbeam-hq/apiserver/internal/archive"
	"github.com/wellbeam-hq/apiserver/types"
)

const (
	// DefaultLookbackDays is used when the requested window is invalid.
	DefaultLookbackDays = 30

	// MaxLookbackDays caps the dashboard window.
	MaxLookbackDays = 365
)

// Threshold ranks for suggested actions.
const (
	stressActionThreshold   = float64(types.LevelHigh)
	workloadActionThreshold = float64(types.LevelHigh)
	moodActionThreshold     = float64(types.LevelLow)
)

// Fixed monthly-report narrative fragments.
var (
	noDataFindings = []string{
		"No assessments were recorded for this period.",
	}
	noDataActions = []string{
		"Encourage the team to record regular self-assessments.",
		"Review whether check-in reminders are reaching everyone.",
	}
	stressActions = []string{
		"Schedule one-on-ones to identify the main stress drivers.",
		"Promote short recovery breaks and stress-management resources.",
	}
	workloadActions = []string{
		"Review task distribution and rebalance assignments.",
		"Check deadlines for slack and renegotiate where possible.",
	}
	moodActions = []string{
		"Open a team conversation about morale and blockers.",
		"Point collaborators at the available emotional-health support.",
	}
	maintenanceActions = []string{
		"Indicators look balanced; keep the current practices in place.",
		"Continue monitoring check-ins for early warning signs.",
	}
)

// SamplesRepository provides score samples for aggregation.
type SamplesRepository interface {
	SamplesSince(ctx context.Context, since time.Time) ([]types.ScoreSample, error)
	SamplesBetween(ctx context.Context, from, to time.Time) ([]types.ScoreSample, error)
}

// DashboardService computes manager-facing aggregates. When an archive
// store is configured, generated monthly reports are additionally written
// there as JSON snapshots, best-effort.
type DashboardService struct {
	repo    SamplesRepository
	archive archive.ObjectStore
	logger  zerolog.Logger
}

func NewDashboardService(repo SamplesRepository, store archive.ObjectStore, logger zerolog.Logger) *DashboardService {
	return &DashboardService{repo: repo, archive: store, logger: logger}
}

// Summary aggregates assessments from the trailing lookback window.
// Days outside (0, 365] fall back to 30. An empty window yields a zeroed
// summary with empty distributions, not an error.
func (s *DashboardService) Summary(ctx context.Context, days int) (types.DashboardSummary, error) {
	if days <= 0 || days > MaxLookbackDays {
		days = DefaultLookbackDays
	}

	samples, err := s.repo.SamplesSince(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return types.DashboardSummary{}, err
	}

	summary := summarize(samples)
	summary.Days = days
	return summary, nil
}

// MonthlyReport aggregates one calendar month and narrates the result.
func (s *DashboardService) MonthlyReport(ctx context.Context, year, month int) (types.MonthlyReport, error) {
	firstOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	samples, err := s.repo.SamplesBetween(ctx, firstOfMonth, firstOfNext)
	if err != nil {
		return types.MonthlyReport{}, err
	}

	report := BuildMonthlyReport(year, month, samples)
	s.archiveReport(ctx, report)
	return report, nil
}

// BuildMonthlyReport is the pure aggregation step behind MonthlyReport.
func BuildMonthlyReport(year, month int, samples []types.ScoreSample) types.MonthlyReport {
	report := types.MonthlyReport{
		Year:             year,
		Month:            month,
		TotalAssessments: len(samples),
	}

	if len(samples) == 0 {
		report.Findings = append(report.Findings, noDataFindings...)
		report.SuggestedActions = append(report.SuggestedActions, noDataActions...)
		return report
	}

	summary := summarize(samples)
	report.AverageMood = summary.AverageMood
	report.AverageStress = summary.AverageStress
	report.AverageWorkload = summary.AverageWorkload

	report.Findings = []string{
		fmt.Sprintf("Average mood for the period was %.2f out of 5.", report.AverageMood),
		fmt.Sprintf("Average stress for the period was %.2f out of 5.", report.AverageStress),
		fmt.Sprintf("Average workload for the period was %.2f out of 5.", report.AverageWorkload),
	}

	// Each threshold is tested independently; every crossed one
	// contributes its action pair.
	if report.AverageStress >= stressActionThreshold {
		report.SuggestedActions = append(report.SuggestedActions, stressActions...)
	}
	if report.AverageWorkload >= workloadActionThreshold {
		report.SuggestedActions = append(report.SuggestedActions, workloadActions...)
	}
	if report.AverageMood <= moodActionThreshold {
		report.SuggestedActions = append(report.SuggestedActions, moodActions...)
	}
	if len(report.SuggestedActions) == 0 {
		report.SuggestedActions = append(report.SuggestedActions, maintenanceActions...)
	}
	return report
}

func summarize(samples []types.ScoreSample) types.DashboardSummary {
	summary := types.DashboardSummary{
		TotalAssessments:     len(samples),
		MoodDistribution:     map[types.Level]int{},
		StressDistribution:   map[types.Level]int{},
		WorkloadDistribution: map[types.Level]int{},
	}
	if len(samples) == 0 {
		return summary
	}

	var moodSum, stressSum, workloadSum int
	for _, sample := range samples {
		moodSum += int(sample.Mood)
		stressSum += int(sample.Stress)
		workloadSum += int(sample.Workload)
		summary.MoodDistribution[sample.Mood]++
		summary.StressDistribution[sample.Stress]++
		summary.WorkloadDistribution[sample.Workload]++
	}

	count := float64(len(samples))
	summary.AverageMood = round2(float64(moodSum) / count)
	summary.AverageStress = round2(float64(stressSum) / count)
	summary.AverageWorkload = round2(float64(workloadSum) / count)
	return summary
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func (s *DashboardService) archiveReport(ctx context.Context, report types.MonthlyReport) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Error().Err(err).Msg("marshal monthly report")
		return
	}
	key := fmt.Sprintf("reports/%04d/%02d.json", report.Year, report.Month)
	if err := s.archive.Put(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("archive monthly report")
	}
}

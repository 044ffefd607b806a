package types

// DashboardSummary aggregates assessments over a trailing lookback window.
// Distributions only carry levels that actually occurred.
type DashboardSummary struct {
	// Days is the effective lookback window in days.
	Days int `json:"days"`

	// TotalAssessments is the number of assessments in the window.
	TotalAssessments int `json:"totalAssessments"`

	AverageMood     float64 `json:"averageMood"`
	AverageStress   float64 `json:"averageStress"`
	AverageWorkload float64 `json:"averageWorkload"`

	MoodDistribution     map[Level]int `json:"moodDistribution"`
	StressDistribution   map[Level]int `json:"stressDistribution"`
	WorkloadDistribution map[Level]int `json:"workloadDistribution"`
}

// MonthlyReport narrates one calendar month of assessments for managers.
type MonthlyReport struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	TotalAssessments int `json:"totalAssessments"`

	AverageMood     float64 `json:"averageMood"`
	AverageStress   float64 `json:"averageStress"`
	AverageWorkload float64 `json:"averageWorkload"`

	// Findings are human-readable observations built from the averages.
	Findings []string `json:"findings"`

	// SuggestedActions lists guidance assembled from threshold checks.
	SuggestedActions []string `json:"suggestedActions"`
}

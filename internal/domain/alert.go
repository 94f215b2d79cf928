package domain

import "context"

// Alert is a finding produced by a farm analyzer: a threshold breach or an
// abnormal trend, with a recommendation for the farmer. Alerts are transient;
// delivery happens through notifications.
// swagger:model Alert
type Alert struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Severity       string         `json:"severity"`
	Recommendation string         `json:"recommendation"`
	RelatedData    map[string]any `json:"related_data,omitempty"`
}

// AnalysisService runs rule-based health and production analyses over the
// farm's data. Analyze* methods only compute alerts; RunFullAnalysis also
// delivers them to every user with notifications enabled.
type AnalysisService interface {
	AnalyzePoultry(ctx context.Context) ([]Alert, error)
	AnalyzeFishery(ctx context.Context) ([]Alert, error)
	RunFullAnalysis(ctx context.Context) error
}

package ports

import (
	"context"

	"dataprofiler/domain/profile"
)

// Interpretation buckets an overall anomaly score (spec §4.7).
type Interpretation string

const (
	InterpretationExcellent  Interpretation = "Excellent"
	InterpretationGood       Interpretation = "Good"
	InterpretationFair       Interpretation = "Fair"
	InterpretationConcerning Interpretation = "Concerning"
	InterpretationPoor       Interpretation = "Poor"
	InterpretationCritical   Interpretation = "Critical"
)

// ComponentScores holds the six weighted inputs to the overall score.
type ComponentScores struct {
	DataQuality  float64
	NullRate     float64
	Outliers     float64
	Distribution float64
	Cardinality  float64
	Schema       float64
}

// AnomalyScoreResult is the outcome of scoring a profile (spec §4.7).
type AnomalyScoreResult struct {
	OverallScore    float64
	Components      ComponentScores
	Interpretation  Interpretation
	Recommendations []string
}

// AnomalyScorer combines component scores into an overall anomaly score.
type AnomalyScorer interface {
	Score(ctx context.Context, p *profile.DataProfile) (AnomalyScoreResult, error)
}

package ports

import (
	"context"

	"dataprofiler/domain/profile"
)

// ColumnFidelity is the per-column comparison between a synthetic and
// original column (spec §4.8).
type ColumnFidelity struct {
	Column        string
	Score         float64 // 0..1
	NullRateDelta float64
	MeanDelta     float64
	StdDelta      float64
	QuantileDelta float64
	KSProxy       float64 // numeric only
	PSI           float64 // categorical only
	TopKOverlap   float64 // categorical only
	JSDivergence  float64 // categorical only
}

// FidelityReport is the full comparison of a synthetic profile against its
// original (spec §4.8).
type FidelityReport struct {
	OverallScorePercent float64 // 0..100
	ColumnScores        []ColumnFidelity
	RelationshipScore   float64
	PrivacyCompliance   float64 // 1.0 pass, 0.8 fail
}

// FidelityValidator compares a synthetic profile against its source profile.
type FidelityValidator interface {
	Validate(ctx context.Context, original, synthetic *profile.DataProfile) (FidelityReport, error)
}

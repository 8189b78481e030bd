package ports

import (
	"context"

	"dataprofiler/domain/profile"
)

// ColumnDistance is the per-column dissimilarity between two profiles'
// matching columns (spec §4.8).
type ColumnDistance struct {
	Column   string
	Distance float64
}

// SegmentComparison is the outcome of comparing two profiles as segments
// (spec §4.8).
type SegmentComparison struct {
	SegmentDistance float64
	ColumnDistances []ColumnDistance
	MissingColumns  []string
}

// SegmentProfiler computes centroid vectors and segment-to-segment
// comparisons (spec §4.8).
type SegmentProfiler interface {
	Centroid(ctx context.Context, p *profile.DataProfile) ([]float64, error)
	Compare(ctx context.Context, a, b *profile.DataProfile) (SegmentComparison, error)
}

package ports

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
)

// DatasetPattern is a dataset-level structural finding (spec §4.2): a
// foreign-key candidate or a monotonic sequence.
type DatasetPattern struct {
	Type       string // "ForeignKeyCandidate" or "Monotonic"
	Column     string
	RefColumn  string // set for ForeignKeyCandidate
	Direction  string // set for Monotonic: "increasing" or "decreasing"
	Ratio      float64
	Confidence float64
}

// PatternDetector enriches a single column in place and detects
// dataset-level structural patterns across already-profiled columns
// (spec §4.2). Implementations must be pure functions of their inputs so
// that column enrichment order does not affect the final profile.
type PatternDetector interface {
	EnrichColumn(ctx context.Context, col *profile.ColumnProfile, values []valuetype.Value, dateAnchor []valuetype.Value, fastMode bool) error
	DetectDatasetPatterns(ctx context.Context, profile *profile.DataProfile, columns map[string][]valuetype.Value, fastMode bool) ([]DatasetPattern, error)
}

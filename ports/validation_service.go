package ports

import (
	"context"

	"dataprofiler/domain/profile"
)

// DriftResult is the outcome of a simple column-delta drift comparison
// between two profiles sharing a schema (spec §4.9, GLOSSARY).
type DriftResult struct {
	DriftScore   float64
	ColumnDrifts map[string]float64
}

// ValidationService computes a simple column-delta drift score between two
// profiles of the same schema.
type ValidationService interface {
	Drift(ctx context.Context, baseline, current *profile.DataProfile) (DriftResult, error)
}

package ports

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/source"
)

// Profiler orchestrates pattern detection and aggregates a DataProfile from
// a data source (spec §4.1).
type Profiler interface {
	Profile(ctx context.Context, desc source.Descriptor, opts source.Options) (*profile.DataProfile, error)
}

package ports

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/signature"
)

// ProfileStore persists DataProfiles with content-addressed,
// schema-addressed, and centroid-addressed lookup (spec §4.3).
type ProfileStore interface {
	Store(ctx context.Context, p *profile.DataProfile, info signature.StoredProfileInfo) (signature.StoredProfileInfo, error)
	Load(ctx context.Context, id string) (*profile.DataProfile, signature.StoredProfileInfo, error)
	Delete(ctx context.Context, id string) error

	FindByContentHash(ctx context.Context, contentHash string) (*signature.StoredProfileInfo, error)
	QuickFindExisting(ctx context.Context, sourcePath string, fileSize int64) (*signature.StoredProfileInfo, error)
	FindBySchemaHash(ctx context.Context, schemaHash string) ([]signature.StoredProfileInfo, error)
	FindWithinDistance(ctx context.Context, centroid []float64, maxDistance float64) ([]signature.StoredProfileInfo, error)

	Baseline(ctx context.Context, schemaHash string) (*signature.StoredProfileInfo, error)
	PinBaseline(ctx context.Context, id string) error

	Prune(ctx context.Context, keepPerSchema int) (deleted []string, err error)
	Reconcile(ctx context.Context) (recovered []string, err error)

	List(ctx context.Context) ([]signature.StoredProfileInfo, error)
}

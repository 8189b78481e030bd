package postgresmirror

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"dataprofiler/domain/signature"
	"dataprofiler/internal/errors"
)

// Mirror indexes StoredProfileInfo rows into PostgreSQL for ad hoc
// cross-dataset SQL queries. It is never authoritative: ProfileStore owns
// deletion and baseline semantics, the mirror only reflects them.
type Mirror struct {
	db *sqlx.DB
}

// Open connects to dsn and applies pending migrations. Callers should treat
// a non-nil error as non-fatal to the overall application when the mirror
// is an optional convenience (DSN configured but temporarily unreachable).
func Open(ctx context.Context, dsn string) (*Mirror, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("open profile mirror: %v", err))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("ping profile mirror: %v", err))
	}
	if err := (&migrator{db: db}).up(ctx); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("migrate profile mirror: %v", err))
	}
	return &Mirror{db: db}, nil
}

func (m *Mirror) Close() error { return m.db.Close() }

// Upsert write-throughs a StoredProfileInfo row, called after every
// successful ProfileStore.Store.
func (m *Mirror) Upsert(ctx context.Context, info signature.StoredProfileInfo) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO stored_profiles (
			id, source_path, file_name, stored_at, row_count, column_count,
			content_hash, file_size, schema_hash, is_pinned_baseline, exclude_from_baseline,
			tags, notes, segment_name, segment_filter, segment_group, profile_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			is_pinned_baseline = EXCLUDED.is_pinned_baseline,
			exclude_from_baseline = EXCLUDED.exclude_from_baseline,
			tags = EXCLUDED.tags,
			notes = EXCLUDED.notes`,
		info.ID, info.SourcePath, info.FileName, info.StoredAt.Time(), info.RowCount, info.ColumnCount,
		info.ContentHash, info.FileSize, info.SchemaHash, info.IsPinnedBaseline, info.ExcludeFromBaseline,
		pqStringArray(info.Tags), info.Notes, info.SegmentName, info.SegmentFilter, info.SegmentGroup, info.ProfilePath)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("upsert mirrored profile %s: %v", info.ID, err))
	}
	return nil
}

// Delete removes a mirrored row, called after ProfileStore.Delete/Prune.
func (m *Mirror) Delete(ctx context.Context, id string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM stored_profiles WHERE id = $1`, id)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("delete mirrored profile %s: %v", id, err))
	}
	return nil
}

// QueryRowCountOver returns IDs of profiles with at least minRows rows,
// the kind of ad hoc cross-dataset query the mirror exists for.
func (m *Mirror) QueryRowCountOver(ctx context.Context, minRows int64, pinnedOnly bool) ([]string, error) {
	query := `SELECT id FROM stored_profiles WHERE row_count >= $1`
	if pinnedOnly {
		query += ` AND is_pinned_baseline = TRUE`
	}
	query += ` ORDER BY row_count DESC`

	var ids []string
	if err := m.db.SelectContext(ctx, &ids, query, minRows); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("query mirror: %v", err))
	}
	return ids, nil
}

func pqStringArray(tags []string) string {
	if len(tags) == 0 {
		return "{}"
	}
	out := "{"
	for i, t := range tags {
		if i > 0 {
			out += ","
		}
		out += `"` + t + `"`
	}
	return out + "}"
}

// Package postgresmirror implements an optional, non-authoritative
// PostgreSQL read-model of StoredProfileInfo rows for ad hoc cross-dataset
// SQL queries. ProfileStore (file + JSON index) remains the source of
// truth; the mirror is write-through and simply not constructed when its
// DSN is unset.
package postgresmirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration is one embedded schema step, checksummed the way the teacher's
// file-based migrator checksums its .sql files.
type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_stored_profiles",
		sql: `
			CREATE TABLE IF NOT EXISTS stored_profiles (
				id                    TEXT PRIMARY KEY,
				source_path           TEXT NOT NULL,
				file_name             TEXT NOT NULL,
				stored_at             TIMESTAMPTZ NOT NULL,
				row_count             BIGINT NOT NULL,
				column_count          INTEGER NOT NULL,
				content_hash          TEXT NOT NULL,
				file_size             BIGINT NOT NULL,
				schema_hash           TEXT NOT NULL,
				is_pinned_baseline    BOOLEAN NOT NULL DEFAULT FALSE,
				exclude_from_baseline BOOLEAN NOT NULL DEFAULT FALSE,
				tags                  TEXT[] NOT NULL DEFAULT '{}',
				notes                 TEXT NOT NULL DEFAULT '',
				segment_name          TEXT NOT NULL DEFAULT '',
				segment_filter        TEXT NOT NULL DEFAULT '',
				segment_group         TEXT NOT NULL DEFAULT '',
				profile_path          TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_stored_profiles_schema_hash ON stored_profiles(schema_hash);
			CREATE INDEX IF NOT EXISTS idx_stored_profiles_row_count ON stored_profiles(row_count);
		`,
	},
}

// migrator applies the embedded migration set, tracking applied versions
// and their checksums in schema_migrations.
type migrator struct {
	db *sqlx.DB
}

func (m *migrator) up(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	rows.Close()

	for _, mig := range migrations {
		if applied[mig.version] {
			continue
		}
		if _, err := m.db.ExecContext(ctx, mig.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", mig.version, err)
		}
		sum := sha256.Sum256([]byte(mig.sql))
		checksum := hex.EncodeToString(sum[:])
		if _, err := m.db.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`,
			mig.version, checksum); err != nil {
			return fmt.Errorf("record migration %s: %w", mig.version, err)
		}
	}
	return nil
}

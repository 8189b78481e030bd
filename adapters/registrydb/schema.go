// Package registrydb implements VectorStore over an embedded sqlite
// database: registry_files, registry_embeddings, registry_conversations,
// and registry_patterns tables, with brute-force cosine fallback in place
// of a vector-index extension (spec §4.4).
package registrydb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"dataprofiler/internal/errors"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS registry_files (
	file_path    TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	file_size    INTEGER NOT NULL,
	profile_json TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS registry_embeddings (
	id             TEXT PRIMARY KEY,
	file_path      TEXT NOT NULL,
	kind           TEXT NOT NULL,
	label          TEXT NOT NULL,
	metadata_json  TEXT NOT NULL,
	embedding_json TEXT NOT NULL,
	dimension      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_registry_embeddings_file ON registry_embeddings(file_path);

CREATE TABLE IF NOT EXISTS registry_conversations (
	session_id     TEXT NOT NULL,
	turn_id        INTEGER NOT NULL,
	role           TEXT NOT NULL,
	content        TEXT NOT NULL,
	embedding_json TEXT NOT NULL,
	dimension      INTEGER NOT NULL,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (session_id, turn_id)
);

CREATE TABLE IF NOT EXISTS registry_patterns (
	column_name      TEXT NOT NULL,
	file_path        TEXT NOT NULL,
	pattern_name     TEXT NOT NULL,
	pattern_type     TEXT NOT NULL,
	detected_regex   TEXT NOT NULL,
	improved_regex   TEXT NOT NULL,
	description      TEXT NOT NULL,
	examples_json    TEXT NOT NULL,
	match_percent    REAL NOT NULL,
	is_identifier    INTEGER NOT NULL,
	is_sensitive     INTEGER NOT NULL,
	validation_rules_json TEXT NOT NULL,
	embedding_json   TEXT NOT NULL,
	dimension        INTEGER NOT NULL,
	PRIMARY KEY (column_name, file_path)
);

CREATE TABLE IF NOT EXISTS registry_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const embeddingDimensionMetaKey = "embedding_dimension"

// openDB opens (or creates) the sqlite database at path and applies schema.
func openDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("open registry db: %v", err))
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite is not safe for concurrent writers
	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("apply registry schema: %v", err))
	}
	return db, nil
}

// reconcileDimension clears the embedding-bearing tables (every row is
// deleted; the tables themselves are kept) and records the new dimension
// when the live embedding service's dimension differs from what is stored.
func reconcileDimension(ctx context.Context, db *sqlx.DB, dimension int) error {
	var storedRaw string
	err := db.GetContext(ctx, &storedRaw, `SELECT value FROM registry_meta WHERE key = ?`, embeddingDimensionMetaKey)
	if err == nil {
		var stored int
		fmt.Sscanf(storedRaw, "%d", &stored)
		if stored == dimension {
			return nil
		}
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("begin dimension migration: %v", err))
	}
	defer tx.Rollback()

	for _, table := range []string{"registry_embeddings", "registry_conversations", "registry_patterns"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.DatabaseError(fmt.Sprintf("reset table %s: %v", table, err))
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO registry_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		embeddingDimensionMetaKey, fmt.Sprintf("%d", dimension)); err != nil {
		return errors.DatabaseError(fmt.Sprintf("record embedding dimension: %v", err))
	}
	return tx.Commit()
}

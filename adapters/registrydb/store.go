package registrydb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/core"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/registry"
	"dataprofiler/internal"
	"dataprofiler/internal/errors"
	"dataprofiler/ports"
)

const maxPatternRows = 20

// Store implements ports.VectorStore over sqlite, with brute-force cosine
// search in place of an unavailable vector-index extension (spec §4.4).
type Store struct {
	db        *sqlx.DB
	embedder  ports.EmbeddingService
	logger    *internal.Logger
	dimension int
}

// Open constructs a Store backed by the sqlite database at path, migrating
// the embedding-bearing tables if the live embedder's dimension changed.
func Open(ctx context.Context, path string, embedder ports.EmbeddingService, logger *internal.Logger) (*Store, error) {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	dim := embedder.Dimension()
	if err := reconcileDimension(ctx, db, dim); err != nil {
		return nil, err
	}
	return &Store{db: db, embedder: embedder, logger: logger, dimension: dim}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// UpsertProfile keys registry_files by file_path (spec §4.4).
func (s *Store) UpsertProfile(ctx context.Context, filePath, contentHash string, fileSize int64, p *profile.DataProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO registry_files (file_path, content_hash, file_size, profile_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			file_size = excluded.file_size,
			profile_json = excluded.profile_json,
			updated_at = excluded.updated_at`,
		filePath, contentHash, fileSize, string(raw), core.Now().String())
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("upsert profile %s: %v", filePath, err))
	}
	return nil
}

// GetCachedProfile returns the stored profile only when its content hash
// still matches currentHash (spec §4.4).
func (s *Store) GetCachedProfile(ctx context.Context, filePath, currentHash string) (*profile.DataProfile, bool, error) {
	var row struct {
		ContentHash string `db:"content_hash"`
		ProfileJSON string `db:"profile_json"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT content_hash, profile_json FROM registry_files WHERE file_path = ?`, filePath)
	if err != nil {
		return nil, false, nil
	}
	if row.ContentHash != currentHash {
		return nil, false, nil
	}
	var p profile.DataProfile
	if err := json.Unmarshal([]byte(row.ProfileJSON), &p); err != nil {
		return nil, false, errors.IndexCorrupt(filePath, err)
	}
	return &p, true, nil
}

// UpsertEmbeddings deletes old rows for filePath, then inserts one summary
// row, one column row per column, and up to 20 insight rows (spec §4.4).
func (s *Store) UpsertEmbeddings(ctx context.Context, filePath string, p *profile.DataProfile) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("begin embeddings tx: %v", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registry_embeddings WHERE file_path = ?`, filePath); err != nil {
		return errors.DatabaseError(fmt.Sprintf("clear embeddings for %s: %v", filePath, err))
	}

	rows := buildRegistryRows(filePath, p)
	for _, r := range rows {
		vec, err := s.embedder.Embed(ctx, r.Label)
		if err != nil {
			return err
		}
		r.Embedding = vec
		if err := insertEmbeddingRow(ctx, tx, r); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertEmbeddingRow(ctx context.Context, tx *sqlx.Tx, r registry.RegistryRow) error {
	metaJSON, err := json.Marshal(r.Metadata)
	if err != nil {
		return err
	}
	embJSON, err := json.Marshal(r.Embedding)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO registry_embeddings (id, file_path, kind, label, metadata_json, embedding_json, dimension)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.FilePath, string(r.Kind), r.Label, string(metaJSON), string(embJSON), len(r.Embedding))
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("insert embedding row: %v", err))
	}
	return nil
}

// buildRegistryRows constructs the summary/column/insight rows for a
// profile, ungrounded in storage until UpsertEmbeddings assigns embeddings.
func buildRegistryRows(filePath string, p *profile.DataProfile) []registry.RegistryRow {
	var rows []registry.RegistryRow

	rows = append(rows, registry.RegistryRow{
		ID:       filePath + "#summary",
		FilePath: filePath,
		Kind:     registry.RowKindSummary,
		Label:    summarySentence(p),
		Metadata: map[string]string{"row_count": fmt.Sprintf("%d", p.RowCount), "column_count": fmt.Sprintf("%d", p.ColumnCount)},
	})

	for _, c := range p.Columns {
		rows = append(rows, registry.RegistryRow{
			ID:       filePath + "#column#" + c.Name,
			FilePath: filePath,
			Kind:     registry.RowKindColumn,
			Label:    columnSentence(c),
			Metadata: map[string]string{"column": c.Name, "type": string(c.InferredType)},
		})
	}

	for i, ins := range p.Insights {
		if i >= maxPatternRows {
			break
		}
		rows = append(rows, registry.RegistryRow{
			ID:       fmt.Sprintf("%s#insight#%d", filePath, i),
			FilePath: filePath,
			Kind:     registry.RowKindInsight,
			Label:    ins.Title + ": " + ins.Description,
			Metadata: map[string]string{"source": ins.Source},
		})
	}
	return rows
}

func summarySentence(p *profile.DataProfile) string {
	return fmt.Sprintf("dataset %s has %d rows and %d columns", p.SourcePath, p.RowCount, p.ColumnCount)
}

func columnSentence(c profile.ColumnProfile) string {
	dominant := ""
	if len(c.TextPatterns) > 0 {
		dominant = " dominant pattern " + string(c.TextPatterns[0].Type)
	}
	return fmt.Sprintf("column %s is %s with %.1f%% null and %.1f%% unique%s",
		c.Name, c.InferredType, c.NullPercent, c.UniquePercent, dominant)
}

// Search embeds queryText and returns the top-k nearest registry rows by
// brute-force cosine distance (spec §4.4).
func (s *Store) Search(ctx context.Context, queryText string, topK int) ([]registry.SearchHit, error) {
	queryVec, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		FilePath      string `db:"file_path"`
		Kind          string `db:"kind"`
		Label         string `db:"label"`
		MetadataJSON  string `db:"metadata_json"`
		EmbeddingJSON string `db:"embedding_json"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT file_path, kind, label, metadata_json, embedding_json FROM registry_embeddings`); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("search scan: %v", err))
	}

	type scored struct {
		hit   registry.SearchHit
		score float64
	}
	hits := make([]scored, 0, len(rows))
	for _, r := range rows {
		var vec []float32
		if err := json.Unmarshal([]byte(r.EmbeddingJSON), &vec); err != nil {
			continue
		}
		var meta map[string]string
		_ = json.Unmarshal([]byte(r.MetadataJSON), &meta)
		hits = append(hits, scored{
			hit: registry.SearchHit{
				FilePath: r.FilePath,
				Label:    r.Label,
				Kind:     registry.RowKind(r.Kind),
				Metadata: meta,
			},
			score: numerics.CosineDistance(queryVec, vec),
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].score < hits[j].score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]registry.SearchHit, len(hits))
	for i, h := range hits {
		h.hit.Score = h.score
		out[i] = h.hit
	}
	return out, nil
}

// AppendConversationTurn assigns a monotonic turn_id per session and is
// append-only (spec §4.4).
func (s *Store) AppendConversationTurn(ctx context.Context, sessionID, role, content string) (registry.ConversationTurn, error) {
	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return registry.ConversationTurn{}, err
	}

	var maxTurn int64
	_ = s.db.GetContext(ctx, &maxTurn, `SELECT COALESCE(MAX(turn_id), 0) FROM registry_conversations WHERE session_id = ?`, sessionID)
	turnID := maxTurn + 1

	embJSON, err := json.Marshal(vec)
	if err != nil {
		return registry.ConversationTurn{}, err
	}
	now := core.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO registry_conversations (session_id, turn_id, role, content, embedding_json, dimension, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, turnID, role, content, string(embJSON), len(vec), now.String())
	if err != nil {
		return registry.ConversationTurn{}, errors.DatabaseError(fmt.Sprintf("append conversation turn: %v", err))
	}
	return registry.ConversationTurn{SessionID: sessionID, TurnID: turnID, Role: role, Content: content, Embedding: vec, CreatedAt: now}, nil
}

// GetConversationContext returns the nearest turns within sessionID by
// embedding distance, tie-broken by most recent first (spec §4.4).
func (s *Store) GetConversationContext(ctx context.Context, sessionID, query string, topK int) ([]registry.ConversationTurn, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		TurnID        int64  `db:"turn_id"`
		Role          string `db:"role"`
		Content       string `db:"content"`
		EmbeddingJSON string `db:"embedding_json"`
		CreatedAt     string `db:"created_at"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT turn_id, role, content, embedding_json, created_at FROM registry_conversations WHERE session_id = ?`, sessionID); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("conversation context scan: %v", err))
	}

	type scored struct {
		turn  registry.ConversationTurn
		score float64
	}
	scoredRows := make([]scored, 0, len(rows))
	for _, r := range rows {
		var vec []float32
		if err := json.Unmarshal([]byte(r.EmbeddingJSON), &vec); err != nil {
			continue
		}
		scoredRows = append(scoredRows, scored{
			turn:  registry.ConversationTurn{SessionID: sessionID, TurnID: r.TurnID, Role: r.Role, Content: r.Content, Embedding: vec},
			score: numerics.CosineDistance(queryVec, vec),
		})
	}
	sort.SliceStable(scoredRows, func(i, j int) bool {
		if scoredRows[i].score != scoredRows[j].score {
			return scoredRows[i].score < scoredRows[j].score
		}
		return scoredRows[i].turn.TurnID > scoredRows[j].turn.TurnID
	})
	if topK > 0 && len(scoredRows) > topK {
		scoredRows = scoredRows[:topK]
	}

	out := make([]registry.ConversationTurn, len(scoredRows))
	for i, r := range scoredRows {
		out[i] = r.turn
	}
	return out, nil
}

// UpsertNovelPattern is keyed by (column_name, file_path), updating in
// place when present (spec §4.4).
func (s *Store) UpsertNovelPattern(ctx context.Context, rec registry.NovelPatternRecord) error {
	vec, err := s.embedder.Embed(ctx, strings.Join(rec.Examples, " "))
	if err != nil {
		return err
	}
	examplesJSON, _ := json.Marshal(rec.Examples)
	rulesJSON, _ := json.Marshal(rec.ValidationRules)
	embJSON, _ := json.Marshal(vec)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO registry_patterns (
			column_name, file_path, pattern_name, pattern_type, detected_regex, improved_regex,
			description, examples_json, match_percent, is_identifier, is_sensitive,
			validation_rules_json, embedding_json, dimension
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(column_name, file_path) DO UPDATE SET
			pattern_name = excluded.pattern_name,
			pattern_type = excluded.pattern_type,
			detected_regex = excluded.detected_regex,
			improved_regex = excluded.improved_regex,
			description = excluded.description,
			examples_json = excluded.examples_json,
			match_percent = excluded.match_percent,
			is_identifier = excluded.is_identifier,
			is_sensitive = excluded.is_sensitive,
			validation_rules_json = excluded.validation_rules_json,
			embedding_json = excluded.embedding_json,
			dimension = excluded.dimension`,
		rec.ColumnName, rec.FilePath, rec.PatternName, rec.PatternType, rec.DetectedRegex, rec.ImprovedRegex,
		rec.Description, string(examplesJSON), rec.MatchPercent, rec.IsIdentifier, rec.IsSensitive,
		string(rulesJSON), string(embJSON), len(vec))
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("upsert novel pattern %s/%s: %v", rec.ColumnName, rec.FilePath, err))
	}
	return nil
}

// SearchPatterns embeds query and returns the top-k nearest novel patterns.
func (s *Store) SearchPatterns(ctx context.Context, query string, topK int) ([]registry.NovelPatternRecord, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	all, err := s.allPatterns(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return numerics.CosineDistance(queryVec, all[i].Embedding) < numerics.CosineDistance(queryVec, all[j].Embedding)
	})
	if topK > 0 && len(all) > topK {
		all = all[:topK]
	}
	return all, nil
}

// FindMatchingPattern embeds the examples joined by spaces and returns the
// nearest stored pattern within maxDistance, if any (spec §4.4).
func (s *Store) FindMatchingPattern(ctx context.Context, examples []string, maxDistance float64) (*registry.NovelPatternRecord, error) {
	queryVec, err := s.embedder.Embed(ctx, strings.Join(examples, " "))
	if err != nil {
		return nil, err
	}
	all, err := s.allPatterns(ctx)
	if err != nil {
		return nil, err
	}

	var best *registry.NovelPatternRecord
	bestScore := maxDistance
	for i := range all {
		d := numerics.CosineDistance(queryVec, all[i].Embedding)
		if d <= bestScore {
			bestScore = d
			best = &all[i]
		}
	}
	return best, nil
}

func (s *Store) allPatterns(ctx context.Context) ([]registry.NovelPatternRecord, error) {
	var rows []struct {
		ColumnName      string  `db:"column_name"`
		FilePath        string  `db:"file_path"`
		PatternName     string  `db:"pattern_name"`
		PatternType     string  `db:"pattern_type"`
		DetectedRegex   string  `db:"detected_regex"`
		ImprovedRegex   string  `db:"improved_regex"`
		Description     string  `db:"description"`
		ExamplesJSON    string  `db:"examples_json"`
		MatchPercent    float64 `db:"match_percent"`
		IsIdentifier    bool    `db:"is_identifier"`
		IsSensitive     bool    `db:"is_sensitive"`
		RulesJSON       string  `db:"validation_rules_json"`
		EmbeddingJSON   string  `db:"embedding_json"`
		Dimension       int     `db:"dimension"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM registry_patterns`); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("list patterns: %v", err))
	}

	out := make([]registry.NovelPatternRecord, 0, len(rows))
	for _, r := range rows {
		var examples, rules []string
		var vec []float32
		_ = json.Unmarshal([]byte(r.ExamplesJSON), &examples)
		_ = json.Unmarshal([]byte(r.RulesJSON), &rules)
		_ = json.Unmarshal([]byte(r.EmbeddingJSON), &vec)
		out = append(out, registry.NovelPatternRecord{
			PatternName: r.PatternName, ColumnName: r.ColumnName, FilePath: r.FilePath,
			PatternType: r.PatternType, DetectedRegex: r.DetectedRegex, ImprovedRegex: r.ImprovedRegex,
			Description: r.Description, Examples: examples, MatchPercent: r.MatchPercent,
			IsIdentifier: r.IsIdentifier, IsSensitive: r.IsSensitive, ValidationRules: rules, Embedding: vec,
		})
	}
	return out, nil
}

var _ ports.VectorStore = (*Store)(nil)

// Package registry defines the row types persisted by the embedded vector
// store: profile summaries, conversation turns, and novel pattern records.
package registry

import "dataprofiler/domain/core"

// RowKind identifies which facet of a profile a RegistryRow embeds.
type RowKind string

const (
	RowKindSummary RowKind = "summary"
	RowKindColumn  RowKind = "column"
	RowKindInsight RowKind = "insight"
)

// RegistryRow is one embedded, searchable fact about a stored profile
// (spec §3): a dataset summary, a per-column sentence, or an insight.
type RegistryRow struct {
	ID            string
	FilePath      string
	Label         string
	Kind          RowKind
	Metadata      map[string]string
	Embedding     []float32
	EmbeddingJSON string // brute-force fallback encoding of Embedding
}

// ConversationTurn is one append-only turn in a chat-style session (spec §3),
// keyed by (SessionID, TurnID).
type ConversationTurn struct {
	SessionID string
	TurnID    int64
	Role      string
	Content   string
	Embedding []float32
	CreatedAt core.Timestamp
}

// NovelPatternRecord is a detected-but-uncataloged text pattern persisted
// for cross-dataset pattern reuse (spec §3).
type NovelPatternRecord struct {
	PatternName     string
	ColumnName      string
	FilePath        string
	PatternType     string
	DetectedRegex   string
	ImprovedRegex   string
	Description     string
	Examples        []string
	MatchPercent    float64
	IsIdentifier    bool
	IsSensitive     bool
	ValidationRules []string
	Embedding       []float32
}

// SearchHit is one result from a similarity query against the registry.
type SearchHit struct {
	FilePath string
	Label    string
	Kind     RowKind
	Metadata map[string]string
	Score    float64 // lower is better: L2 distance or 1-cosine
}

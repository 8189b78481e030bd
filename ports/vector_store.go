package ports

import (
	"context"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/registry"
)

// VectorStore is the durable embedded registry of profile summaries,
// conversation turns, and novel patterns (spec §4.4).
type VectorStore interface {
	UpsertProfile(ctx context.Context, filePath, contentHash string, fileSize int64, p *profile.DataProfile) error
	GetCachedProfile(ctx context.Context, filePath, currentHash string) (*profile.DataProfile, bool, error)

	UpsertEmbeddings(ctx context.Context, filePath string, p *profile.DataProfile) error
	Search(ctx context.Context, queryText string, topK int) ([]registry.SearchHit, error)

	AppendConversationTurn(ctx context.Context, sessionID, role, content string) (registry.ConversationTurn, error)
	GetConversationContext(ctx context.Context, sessionID, query string, topK int) ([]registry.ConversationTurn, error)

	UpsertNovelPattern(ctx context.Context, rec registry.NovelPatternRecord) error
	SearchPatterns(ctx context.Context, query string, topK int) ([]registry.NovelPatternRecord, error)
	FindMatchingPattern(ctx context.Context, examples []string, maxDistance float64) (*registry.NovelPatternRecord, error)

	Close(ctx context.Context) error
}

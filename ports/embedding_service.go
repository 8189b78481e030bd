package ports

import "context"

// EmbeddingService produces a fixed-length, L2-normalized vector from text
// (spec §4.5). Implementations are safe for concurrent use.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	Kind() string // "hash" or "learned"
}

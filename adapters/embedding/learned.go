package embedding

import (
	"context"

	"dataprofiler/internal/errors"
	"dataprofiler/ports"
)

// LearnedBackend is the shape an external model pipeline must satisfy to
// back Service: deterministic per input, L2-normalized output, dimension
// fixed by the model rather than the hash embedder's 128 (spec §4.5).
type LearnedBackend struct {
	endpoint  string
	dimension int
}

// NewLearnedBackend constructs a client for an external embedding endpoint.
// No network call is made until the first Embed/EmbedBatch call.
func NewLearnedBackend(endpoint string, dimension int) *LearnedBackend {
	return &LearnedBackend{endpoint: endpoint, dimension: dimension}
}

func (l *LearnedBackend) Dimension() int { return l.dimension }
func (l *LearnedBackend) Kind() string   { return "learned" }

// Embed is unimplemented: no learned model pipeline ships with this engine.
// A deployment wiring a real one replaces this type with its own client
// satisfying ports.EmbeddingService and passes it via a LearnedFactory.
func (l *LearnedBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.InternalError("learned embedding backend not configured: " + l.endpoint)
}

func (l *LearnedBackend) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.InternalError("learned embedding backend not configured: " + l.endpoint)
}

var _ ports.EmbeddingService = (*LearnedBackend)(nil)

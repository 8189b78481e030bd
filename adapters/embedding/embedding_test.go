package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/ports"
)

func vecNorm(v []float32) float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	return math.Sqrt(sumSq)
}

func TestHashEmbedderDeterministicAndNormalized(t *testing.T) {
	h := NewHashEmbedder()
	ctx := context.Background()

	a, err := h.Embed(ctx, "orders.csv has a numeric amount column")
	require.NoError(t, err)
	b, err := h.Embed(ctx, "orders.csv has a numeric amount column")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 128)
	assert.InDelta(t, 1.0, vecNorm(a), 1e-6)
}

func TestHashEmbedderEmptyTextIsZeroVector(t *testing.T) {
	h := NewHashEmbedder()
	v, err := h.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, vecNorm(v))
}

func TestServiceFallsBackToHashOnFactoryError(t *testing.T) {
	factory := func(ctx context.Context) (ports.EmbeddingService, error) {
		return nil, errors.New("connection refused")
	}
	s := New(factory, 50*time.Millisecond, nil)

	v, err := s.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, v, 128)
	assert.Equal(t, "hash", s.Kind())
}

func TestServiceUsesHashWhenNoFactory(t *testing.T) {
	s := New(nil, 0, nil)
	assert.Equal(t, "hash", s.Kind())
	assert.Equal(t, 128, s.Dimension())
}

package registrydb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/adapters/embedding"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/registry"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := Open(context.Background(), path, embedding.NewHashEmbedder(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func sampleProfile() *profile.DataProfile {
	return &profile.DataProfile{
		SourcePath:  "orders.csv",
		RowCount:    100,
		ColumnCount: 1,
		Columns: []profile.ColumnProfile{
			{Name: "amount", InferredType: profile.TypeNumeric, NullPercent: 1, UniquePercent: 80},
		},
		Insights: []profile.Insight{{Title: "Monotonic sequence", Description: "id is increasing", Source: "PatternDetector"}},
	}
}

func TestUpsertAndGetCachedProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := sampleProfile()

	require.NoError(t, s.UpsertProfile(ctx, "orders.csv", "hash-a", 1024, p))

	cached, ok, err := s.GetCachedProfile(ctx, "orders.csv", "hash-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.RowCount, cached.RowCount)

	_, ok, err = s.GetCachedProfile(ctx, "orders.csv", "hash-b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertEmbeddingsAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := sampleProfile()

	require.NoError(t, s.UpsertEmbeddings(ctx, "orders.csv", p))

	hits, err := s.Search(ctx, "amount numeric column", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "orders.csv", hits[0].FilePath)
}

func TestConversationTurnsAreMonotonicAndAppendOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AppendConversationTurn(ctx, "sess-1", "user", "what is the null rate of amount?")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TurnID)

	second, err := s.AppendConversationTurn(ctx, "sess-1", "assistant", "the null rate of amount is 1 percent")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.TurnID)

	turns, err := s.GetConversationContext(ctx, "sess-1", "null rate amount", 5)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestUpsertNovelPatternAndFindMatching(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := registry.NovelPatternRecord{
		PatternName: "order-ref", ColumnName: "order_ref", FilePath: "orders.csv",
		PatternType: "Novel", DetectedRegex: `^ORD-\d{6}$`, Description: "order reference code",
		Examples: []string{"ORD-000123", "ORD-000456"}, MatchPercent: 98.5,
	}
	require.NoError(t, s.UpsertNovelPattern(ctx, rec))

	match, err := s.FindMatchingPattern(ctx, []string{"ORD-000999"}, 0.99)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "order_ref", match.ColumnName)

	results, err := s.SearchPatterns(ctx, "order reference code", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

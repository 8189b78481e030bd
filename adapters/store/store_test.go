package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/signature"
)

func sampleProfile(mean float64) *profile.DataProfile {
	return &profile.DataProfile{
		SourcePath:  "orders.csv",
		RowCount:    1000,
		ColumnCount: 1,
		Columns: []profile.ColumnProfile{
			{
				Name: "amount", InferredType: profile.TypeNumeric, HasNumeric: true,
				Count: 1000, Mean: mean, StdDev: 5, Min: 0, Max: 100,
			},
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := sampleProfile(50)
	info, err := s.Store(ctx, p, signature.StoredProfileInfo{SourcePath: p.SourcePath, ContentHash: "abc123", FileSize: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.NotEmpty(t, info.SchemaHash)
	assert.Len(t, info.CentroidVector, 2+9)

	loaded, loadedInfo, err := s.Load(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, p.SourcePath, loaded.SourcePath)
	assert.Equal(t, info.ID, loadedInfo.ID)
}

func TestFindByContentHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := sampleProfile(50)
	info, err := s.Store(ctx, p, signature.StoredProfileInfo{SourcePath: p.SourcePath, ContentHash: "dead beef", FileSize: 99})
	require.NoError(t, err)

	found, err := s.FindByContentHash(ctx, "dead beef")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, info.ID, found.ID)

	missing, err := s.FindByContentHash(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBaselineAndPin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Store(ctx, sampleProfile(50), signature.StoredProfileInfo{SourcePath: "a.csv", ContentHash: "h1"})
	require.NoError(t, err)
	_, err = s.Store(ctx, sampleProfile(60), signature.StoredProfileInfo{SourcePath: "b.csv", ContentHash: "h2"})
	require.NoError(t, err)

	baseline, err := s.Baseline(ctx, first.SchemaHash)
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, first.ID, baseline.ID)

	third, err := s.Store(ctx, sampleProfile(70), signature.StoredProfileInfo{SourcePath: "c.csv", ContentHash: "h3"})
	require.NoError(t, err)
	require.NoError(t, s.PinBaseline(ctx, third.ID))

	baseline, err = s.Baseline(ctx, third.SchemaHash)
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, third.ID, baseline.ID)
}

func TestPruneKeepsPinnedAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		info, err := s.Store(ctx, sampleProfile(float64(i)), signature.StoredProfileInfo{SourcePath: "x.csv", ContentHash: "h"})
		require.NoError(t, err)
		ids = append(ids, info.ID)
	}
	require.NoError(t, s.PinBaseline(ctx, ids[0]))

	deleted, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.NotEmpty(t, deleted)

	remaining, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 3) // 2 kept + 1 pinned

	found := false
	for _, r := range remaining {
		if r.ID == ids[0] {
			found = true
		}
	}
	assert.True(t, found, "pinned baseline must survive prune")
}

func TestFindWithinDistance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	near, err := s.Store(ctx, sampleProfile(50), signature.StoredProfileInfo{SourcePath: "a.csv", ContentHash: "h1"})
	require.NoError(t, err)
	_, err = s.Store(ctx, sampleProfile(95), signature.StoredProfileInfo{SourcePath: "b.csv", ContentHash: "h2"})
	require.NoError(t, err)

	hits, err := s.FindWithinDistance(ctx, near.CentroidVector, 0.05)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, near.ID, hits[0].ID)
}

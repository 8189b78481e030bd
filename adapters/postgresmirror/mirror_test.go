package postgresmirror

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/core"
	"dataprofiler/domain/signature"
)

func TestPqStringArray(t *testing.T) {
	assert.Equal(t, "{}", pqStringArray(nil))
	assert.Equal(t, `{"pii","reviewed"}`, pqStringArray([]string{"pii", "reviewed"}))
}

// TestMirrorUpsertAndQuery exercises a live PostgreSQL connection and is
// skipped unless PROFILE_MIRROR_TEST_DSN is set, matching how live external
// services are gated elsewhere in this codebase.
func TestMirrorUpsertAndQuery(t *testing.T) {
	dsn := os.Getenv("PROFILE_MIRROR_TEST_DSN")
	if dsn == "" {
		t.Skip("Skipping live test: PROFILE_MIRROR_TEST_DSN not set")
	}

	ctx := context.Background()
	m, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer m.Close()

	info := signature.StoredProfileInfo{
		ID: "abc123456789", SourcePath: "orders.csv", FileName: "orders.csv",
		StoredAt: core.Now(), RowCount: 2_000_000, ColumnCount: 5,
		ContentHash: "h1", SchemaHash: "s1", IsPinnedBaseline: true, ProfilePath: "/tmp/abc.json",
	}
	require.NoError(t, m.Upsert(ctx, info))

	ids, err := m.QueryRowCountOver(ctx, 1_000_000, true)
	require.NoError(t, err)
	assert.Contains(t, ids, info.ID)

	require.NoError(t, m.Delete(ctx, info.ID))
}

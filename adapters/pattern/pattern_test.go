package pattern

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
)

func TestMatchCatalogEmail(t *testing.T) {
	values := make([]string, 1000)
	for i := range values {
		values[i] = fmt.Sprintf("user_%d@example.com", i)
	}

	patterns := MatchCatalog(values)
	require.NotEmpty(t, patterns)
	assert.Equal(t, profile.PatternEmail, patterns[0].Type)
	assert.InDelta(t, 100.0, patterns[0].MatchPercent, 0.001)
}

func TestDetectNovelPattern(t *testing.T) {
	var distinct []string
	for i := 0; i < 50; i++ {
		distinct = append(distinct, fmt.Sprintf("XX-%05d", i))
	}

	result, ok := DetectNovel(distinct, 50)
	require.True(t, ok)
	assert.Equal(t, profile.PatternNovel, result.Type)
	assert.Equal(t, `^[a-zA-Z]+[^a-zA-Z0-9\s]+[0-9]+$`, result.InferredRegex)
	assert.GreaterOrEqual(t, result.MatchPercent, 70.0)

	matched := ExamplesMatching(distinct, result)
	assert.Len(t, matched, len(distinct))
}

func TestClassifyDistributionNormal(t *testing.T) {
	dist := ClassifyDistribution(1.0, 0.1, 3.05, -3, 3, 1.3, []int64{1, 5, 20, 40, 60, 60, 40, 20, 5, 1})
	assert.Equal(t, profile.DistNormal, dist)
}

func TestIsBimodal(t *testing.T) {
	hist := []int64{50, 30, 5, 2, 5, 30, 50, 10, 2, 1}
	assert.True(t, isBimodal(hist))
}

func TestDetectMonotonicIncreasing(t *testing.T) {
	columns := []profile.ColumnProfile{
		{Name: "id", InferredType: profile.TypeID},
	}
	values := make([]valuetype.Value, 10000)
	for i := range values {
		values[i] = valuetype.Int(int64(i + 1))
	}

	patterns := DetectMonotonic(columns, map[string][]valuetype.Value{"id": values})
	require.Len(t, patterns, 1)
	assert.Equal(t, "increasing", patterns[0].Direction)
	assert.InDelta(t, 1.0, patterns[0].Ratio, 0.01)
}

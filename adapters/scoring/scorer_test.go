package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
	"dataprofiler/ports"
)

func TestScoreExcellent(t *testing.T) {
	p := &profile.DataProfile{
		RowCount:    1000,
		ColumnCount: 1,
		Columns: []profile.ColumnProfile{
			{
				Name: "email", InferredType: profile.TypeText, Count: 1000, NullCount: 0,
				UniqueCount: 1000, UniquePercent: 100,
				TextPatterns: []profile.TextPattern{{Type: profile.PatternEmail, MatchPercent: 100}},
			},
		},
	}

	scorer := NewScorer()
	result, err := scorer.Score(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, ports.InterpretationExcellent, result.Interpretation)
}

func TestScoreConstantColumn(t *testing.T) {
	p := &profile.DataProfile{
		RowCount:    100,
		ColumnCount: 1,
		Columns: []profile.ColumnProfile{
			{Name: "country", InferredType: profile.TypeCategorical, Count: 100, UniqueCount: 1},
		},
	}

	scorer := NewScorer()
	result, err := scorer.Score(context.Background(), p)
	require.NoError(t, err)
	assert.Greater(t, result.Components.Cardinality, 0.0)
	assert.Contains(t, result.Recommendations, "Remove constant columns before modeling")
}

package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
)

func TestDriftOneSigmaMeanShift(t *testing.T) {
	baseline := &profile.DataProfile{
		Columns: []profile.ColumnProfile{
			{Name: "price", InferredType: profile.TypeNumeric, HasNumeric: true, Mean: 50, StdDev: 10},
		},
	}
	current := &profile.DataProfile{
		Columns: []profile.ColumnProfile{
			{Name: "price", InferredType: profile.TypeNumeric, HasNumeric: true, Mean: 60, StdDev: 10},
		},
	}

	s := NewService()
	result, err := s.Drift(context.Background(), baseline, current)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.DriftScore, 0.6)
	assert.Contains(t, result.ColumnDrifts, "price")
}

func TestDriftNoChange(t *testing.T) {
	baseline := &profile.DataProfile{
		Columns: []profile.ColumnProfile{
			{Name: "price", InferredType: profile.TypeNumeric, HasNumeric: true, Mean: 50, StdDev: 10},
		},
	}
	current := &profile.DataProfile{
		Columns: []profile.ColumnProfile{
			{Name: "price", InferredType: profile.TypeNumeric, HasNumeric: true, Mean: 50, StdDev: 10},
		},
	}

	s := NewService()
	result, err := s.Drift(context.Background(), baseline, current)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.DriftScore)
}

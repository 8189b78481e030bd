package segment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
)

func baselineProfile(mean float64) *profile.DataProfile {
	return &profile.DataProfile{
		RowCount:    1000,
		ColumnCount: 1,
		Columns: []profile.ColumnProfile{
			{
				Name:         "amount",
				InferredType: profile.TypeNumeric,
				Count:        1000,
				NullPercent:  0,
				Min:          0,
				Max:          100,
				Mean:         mean,
				StdDev:       10,
				HasNumeric:   true,
			},
		},
	}
}

func TestCentroidShape(t *testing.T) {
	p := baselineProfile(50)
	s := NewProfiler()

	vec, err := s.Centroid(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, vec, 2+9)
}

func TestCompareDriftDetection(t *testing.T) {
	a := baselineProfile(50)
	b := baselineProfile(90)

	s := NewProfiler()

	centroidA, err := s.Centroid(context.Background(), a)
	require.NoError(t, err)
	centroidB, err := s.Centroid(context.Background(), b)
	require.NoError(t, err)
	assert.Greater(t, CentroidDistance(centroidA, centroidB), 0.0)

	cmp, err := s.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.Empty(t, cmp.MissingColumns)
	assert.Greater(t, 1-cmp.SegmentDistance, 0.5)
}

func TestCompareMissingColumn(t *testing.T) {
	a := baselineProfile(50)
	b := &profile.DataProfile{RowCount: 1000, ColumnCount: 0}

	s := NewProfiler()
	cmp, err := s.Compare(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount"}, cmp.MissingColumns)
	assert.Greater(t, cmp.SegmentDistance, 0.0)
}

package fidelity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
)

func numericColumn(name string, mean, stdDev, median, q25, q75 float64) profile.ColumnProfile {
	return profile.ColumnProfile{
		Name:         name,
		InferredType: profile.TypeNumeric,
		HasNumeric:   true,
		Mean:         mean,
		StdDev:       stdDev,
		Median:       median,
		Q25:          q25,
		Q75:          q75,
		IQR:          q75 - q25,
	}
}

func TestValidateHighFidelity(t *testing.T) {
	original := &profile.DataProfile{
		Columns: []profile.ColumnProfile{numericColumn("amount", 50, 10, 50, 40, 60)},
	}
	synthetic := &profile.DataProfile{
		Columns: []profile.ColumnProfile{numericColumn("amount", 50.5, 10.2, 50.3, 40.1, 60.2)},
	}

	v := NewValidator()
	report, err := v.Validate(context.Background(), original, synthetic)
	require.NoError(t, err)
	require.Len(t, report.ColumnScores, 1)
	assert.Greater(t, report.ColumnScores[0].Score, 0.8)
	assert.Greater(t, report.OverallScorePercent, 80.0)
}

func TestValidateLowFidelity(t *testing.T) {
	original := &profile.DataProfile{
		Columns: []profile.ColumnProfile{numericColumn("amount", 50, 10, 50, 40, 60)},
	}
	synthetic := &profile.DataProfile{
		Columns: []profile.ColumnProfile{numericColumn("amount", 500, 200, 480, 300, 700)},
	}

	v := NewValidator()
	report, err := v.Validate(context.Background(), original, synthetic)
	require.NoError(t, err)
	require.Len(t, report.ColumnScores, 1)
	assert.Less(t, report.ColumnScores[0].Score, 0.5)
}

func TestPrivacyComplianceFlagsUniqueColumn(t *testing.T) {
	synthetic := &profile.DataProfile{
		Columns: []profile.ColumnProfile{
			{Name: "email", InferredType: profile.TypeText, UniquePercent: 100},
		},
	}
	assert.Equal(t, 0.8, privacyCompliance(synthetic))
}

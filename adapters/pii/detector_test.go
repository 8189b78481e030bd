package pii

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/profile"
	"dataprofiler/domain/valuetype"
	"dataprofiler/ports"
)

func TestAssessColumnEmail(t *testing.T) {
	d := NewDetector(nil)
	values := make([]valuetype.Value, 1000)
	for i := range values {
		values[i] = valuetype.Text(fmt.Sprintf("user_%d@example.com", i))
	}

	risk, err := d.AssessColumn(context.Background(), "email", profile.TypeText, values, 1000, 1000)
	require.NoError(t, err)
	assert.Contains(t, risk.DetectedTypes, ports.PiiEmail)
	assert.NotEqual(t, ports.PiiRiskNone, risk.RiskLevel)
}

func TestAssessColumnNameOnly(t *testing.T) {
	d := NewDetector(nil)
	values := []valuetype.Value{valuetype.Text("foo"), valuetype.Text("bar")}

	risk, err := d.AssessColumn(context.Background(), "ssn_number", profile.TypeText, values, 2, 2)
	require.NoError(t, err)
	assert.True(t, risk.NameOnlyMatch)
	assert.Contains(t, risk.DetectedTypes, ports.PiiSSN)
}

func TestAssessColumnUniqueIdentifier(t *testing.T) {
	d := NewDetector(nil)
	values := make([]valuetype.Value, 100)
	for i := range values {
		values[i] = valuetype.Text(fmt.Sprintf("row-%d", i))
	}

	risk, err := d.AssessColumn(context.Background(), "row_key", profile.TypeText, values, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, ports.PiiRiskHigh, risk.RiskLevel)
}

func TestAssessColumnUniquenessIgnoredForNonText(t *testing.T) {
	d := NewDetector(nil)
	values := make([]valuetype.Value, 100)
	for i := range values {
		values[i] = valuetype.Int(int64(i))
	}

	risk, err := d.AssessColumn(context.Background(), "row_id", profile.TypeID, values, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, ports.PiiRiskNone, risk.RiskLevel)
}

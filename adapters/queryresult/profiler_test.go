package queryresult

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
)

func TestProfileExtractsWhereClause(t *testing.T) {
	p := NewProfiler()
	result := source.QueryResult{
		Columns: []string{"amount"},
		Rows: []map[string]valuetype.Value{
			{"amount": valuetype.Float(10)},
			{"amount": valuetype.Float(20)},
		},
	}

	cached, err := p.Profile(context.Background(), "What is the Total Amount?",
		"SELECT amount FROM orders WHERE status = 'paid' GROUP BY amount", "summary", result, nil)
	require.NoError(t, err)
	assert.Equal(t, "status = 'paid'", cached.WhereClause)
	assert.NotContains(t, cached.NormalizedQuery, "what")
	assert.NotContains(t, cached.NormalizedQuery, "is")
}

func TestProfileNumericColumnStats(t *testing.T) {
	p := NewProfiler()
	result := source.QueryResult{
		Columns: []string{"amount"},
		Rows: []map[string]valuetype.Value{
			{"amount": valuetype.Float(10)},
			{"amount": valuetype.Float(20)},
			{"amount": valuetype.Float(30)},
		},
	}

	cached, err := p.Profile(context.Background(), "total", "SELECT amount FROM orders", "", result, nil)
	require.NoError(t, err)
	stats := cached.ColumnStats["amount"]
	assert.True(t, stats.IsNumeric)
	assert.Equal(t, 20.0, stats.Mean)
}

func TestProfileNearConstantCategorical(t *testing.T) {
	p := NewProfiler()
	result := source.QueryResult{
		Columns: []string{"status"},
		Rows: []map[string]valuetype.Value{
			{"status": valuetype.Text("paid")},
			{"status": valuetype.Text("paid")},
			{"status": valuetype.Text("paid")},
		},
	}

	cached, err := p.Profile(context.Background(), "status", "SELECT status FROM orders", "", result, nil)
	require.NoError(t, err)
	assert.Equal(t, "near-constant", cached.ColumnStats["status"].DetectedPattern)
}

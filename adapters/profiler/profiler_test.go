package profiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/adapters/pattern"
	"dataprofiler/adapters/pii"
	"dataprofiler/adapters/query"
	"dataprofiler/adapters/scoring"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/source"
	"dataprofiler/ports"
)

func writeCSV(t *testing.T, rows []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644))
	return path
}

func newTestProfiler() *Profiler {
	return New(query.NewInMemoryAdapter(), pattern.NewDetector(), pii.NewDetector(nil), nil)
}

func TestProfileEmailColumn(t *testing.T) {
	rows := []string{"email"}
	for i := 0; i < 1000; i++ {
		rows = append(rows, fmt.Sprintf("user_%d@example.com", i))
	}
	path := writeCSV(t, rows)

	p := newTestProfiler()
	dp, err := p.Profile(context.Background(), source.Descriptor{Kind: source.KindCSV, Locator: path}, source.DefaultOptions())
	require.NoError(t, err)

	col, ok := dp.Column("email")
	require.True(t, ok)
	assert.Equal(t, profile.TypeText, col.InferredType)
	require.Len(t, col.TextPatterns, 1)
	assert.Equal(t, profile.PatternEmail, col.TextPatterns[0].Type)
	assert.Equal(t, 100.0, col.TextPatterns[0].MatchPercent)
	assert.Equal(t, 0.0, col.NullPercent)
}

// TestEmailColumnScoresExcellent drives the real Profiler -> PiiDetector ->
// Scorer pipeline against a clean email column and checks the anomaly score
// lands on Excellent: detecting PII in an otherwise healthy column is not
// itself a data-quality defect.
func TestEmailColumnScoresExcellent(t *testing.T) {
	rows := []string{"email"}
	for i := 0; i < 1000; i++ {
		rows = append(rows, fmt.Sprintf("user_%d@example.com", i))
	}
	path := writeCSV(t, rows)

	p := newTestProfiler()
	dp, err := p.Profile(context.Background(), source.Descriptor{Kind: source.KindCSV, Locator: path}, source.DefaultOptions())
	require.NoError(t, err)

	foundPii := false
	for _, a := range dp.Alerts {
		if a.Type == "PiiDetected" && a.Column == "email" {
			foundPii = true
		}
	}
	assert.True(t, foundPii, "expected a PiiDetected alert on the email column")

	result, err := scoring.NewScorer().Score(context.Background(), dp)
	require.NoError(t, err)
	assert.Equal(t, ports.InterpretationExcellent, result.Interpretation)
}

func TestProfileConstantColumn(t *testing.T) {
	rows := []string{"country"}
	for i := 0; i < 100; i++ {
		rows = append(rows, "US")
	}
	path := writeCSV(t, rows)

	p := newTestProfiler()
	dp, err := p.Profile(context.Background(), source.Descriptor{Kind: source.KindCSV, Locator: path}, source.DefaultOptions())
	require.NoError(t, err)

	col, ok := dp.Column("country")
	require.True(t, ok)
	assert.Equal(t, int64(1), col.UniqueCount)
	require.Len(t, col.TopValues, 1)
	assert.Equal(t, "US", col.TopValues[0].Value)
	assert.Equal(t, int64(100), col.TopValues[0].Count)
	assert.Equal(t, 100.0, col.TopValues[0].Percent)

	found := false
	for _, a := range dp.Alerts {
		if a.Type == "ConstantColumn" && a.Column == "country" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProfileMonotonicID(t *testing.T) {
	rows := []string{"id"}
	for i := 1; i <= 10000; i++ {
		rows = append(rows, strconv.Itoa(i))
	}
	path := writeCSV(t, rows)

	p := newTestProfiler()
	dp, err := p.Profile(context.Background(), source.Descriptor{Kind: source.KindCSV, Locator: path}, source.DefaultOptions())
	require.NoError(t, err)

	col, ok := dp.Column("id")
	require.True(t, ok)
	assert.Equal(t, profile.TypeID, col.InferredType)

	found := false
	for _, ins := range dp.Insights {
		if ins.Title == "Monotonic sequence" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProfileFastModeSkipsDatasetPatterns(t *testing.T) {
	rows := []string{"id"}
	for i := 1; i <= 20; i++ {
		rows = append(rows, strconv.Itoa(i))
	}
	path := writeCSV(t, rows)

	p := newTestProfiler()
	opts := source.DefaultOptions()
	opts.FastMode = true
	dp, err := p.Profile(context.Background(), source.Descriptor{Kind: source.KindCSV, Locator: path}, opts)
	require.NoError(t, err)
	assert.Empty(t, dp.Insights)
}

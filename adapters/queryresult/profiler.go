// Package queryresult wraps a cached query result with the same per-column
// aggregates a stored profile carries, so it can feed back into profile
// enrichment (spec §4.9).
package queryresult

import (
	"context"
	"regexp"
	"strings"

	"dataprofiler/adapters/numerics"
	"dataprofiler/domain/source"
	"dataprofiler/ports"
)

const categoricalCardinalityMax = 50

var (
	whereStopClause = regexp.MustCompile(`(?i)\s+(group\s+by|order\s+by|limit)\b`)
	whereClauseRe   = regexp.MustCompile(`(?i)\bwhere\b(.*)$`)
	fillerWords     = map[string]bool{
		"the": true, "a": true, "an": true, "of": true, "is": true,
		"are": true, "what": true, "show": true, "me": true, "please": true,
	}
	punctuationRe = regexp.MustCompile(`[^\w\s]`)
)

// Profiler implements ports.QueryResultProfiler.
type Profiler struct{}

// NewProfiler constructs a query result profiler.
func NewProfiler() *Profiler { return &Profiler{} }

// Profile derives cacheable aggregates from a query result and wraps them
// with the original question/SQL context (spec §4.9).
func (p *Profiler) Profile(ctx context.Context, question, sql, summary string, result source.QueryResult, relatedColumns []string) (ports.CachedQueryResult, error) {
	columnStats := make(map[string]ports.QueryColumnStats, len(result.Columns))
	for _, col := range result.Columns {
		columnStats[col] = columnStatsFor(result, col)
	}

	return ports.CachedQueryResult{
		Question:        question,
		SQL:             sql,
		Summary:         summary,
		NormalizedQuery: normalizeQuestion(question),
		WhereClause:     extractWhereClause(sql),
		RelatedColumns:  relatedColumns,
		Result:          result,
		ColumnStats:     columnStats,
	}, nil
}

func columnStatsFor(result source.QueryResult, col string) ports.QueryColumnStats {
	var numericValues []float64
	counts := make(map[string]int64)

	for _, row := range result.Rows {
		v, ok := row[col]
		if !ok || v.IsNull() {
			continue
		}
		if v.IsNumeric() {
			numericValues = append(numericValues, v.AsFloat64())
		}
		counts[v.AsString()]++
	}

	stats := ports.QueryColumnStats{
		Cardinality: int64(len(counts)),
	}

	if len(numericValues) > 0 && len(numericValues) == countNonNull(result, col) {
		summary, ok := numerics.Summarize(numericValues, false)
		if ok {
			stats.IsNumeric = true
			stats.Min = summary.Min
			stats.Max = summary.Max
			stats.Mean = summary.Mean
			stats.Median = summary.Median
			stats.Q25 = summary.Q25
			stats.Q75 = summary.Q75
			stats.StdDev = summary.StdDev
			stats.OutlierCount = summary.OutlierCount
			stats.DetectedPattern = detectNumericPattern(summary)
		}
	} else if stats.Cardinality <= categoricalCardinalityMax {
		stats.DetectedPattern = detectCategoricalPattern(counts, len(result.Rows))
	}

	return stats
}

func countNonNull(result source.QueryResult, col string) int {
	n := 0
	for _, row := range result.Rows {
		if v, ok := row[col]; ok && !v.IsNull() {
			n++
		}
	}
	return n
}

func detectNumericPattern(s numerics.Summary) string {
	switch {
	case s.StdDev == 0:
		return "near-constant"
	case s.OutlierCount > 0 && float64(s.OutlierCount)/float64(s.Count) > 0.05:
		return "outlier clusters"
	case absf(s.Mean-s.Median) > s.StdDev*0.5:
		return "skewed"
	default:
		return ""
	}
}

func detectCategoricalPattern(counts map[string]int64, total int) string {
	if len(counts) == 0 {
		return ""
	}
	if len(counts) == 1 {
		return "near-constant"
	}
	var top int64
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	if total > 0 && float64(top)/float64(total) > 0.9 {
		return "near-constant"
	}
	return ""
}

func extractWhereClause(sql string) string {
	m := whereClauseRe.FindStringSubmatch(sql)
	if m == nil {
		return ""
	}
	clause := m[1]
	if loc := whereStopClause.FindStringIndex(clause); loc != nil {
		clause = clause[:loc[0]]
	}
	return strings.TrimSpace(clause)
}

func normalizeQuestion(question string) string {
	lower := strings.ToLower(question)
	stripped := punctuationRe.ReplaceAllString(lower, " ")

	fields := strings.Fields(stripped)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if fillerWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

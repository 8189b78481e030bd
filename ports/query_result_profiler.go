package ports

import (
	"context"

	"dataprofiler/domain/source"
)

// CachedQueryResult wraps a question/SQL pair with its result data and
// derived aggregates, suitable for profile enrichment (spec §4.9).
type CachedQueryResult struct {
	Question        string
	SQL             string
	Summary         string
	NormalizedQuery string
	WhereClause     string
	RelatedColumns  []string
	Result          source.QueryResult
	ColumnStats     map[string]QueryColumnStats
}

// QueryColumnStats is the per-column aggregate derived from a query result.
type QueryColumnStats struct {
	IsNumeric        bool
	Min, Max, Mean   float64
	Median, Q25, Q75 float64
	StdDev           float64
	OutlierCount     int64
	Cardinality      int64
	DetectedPattern  string
}

// QueryResultProfiler analyzes a query result and extracts cacheable
// aggregates keyed by filter context (spec §4.9).
type QueryResultProfiler interface {
	Profile(ctx context.Context, question, sql, summary string, result source.QueryResult, relatedColumns []string) (CachedQueryResult, error)
}

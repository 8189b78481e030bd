// Package source describes the inputs the profiling core reads: file-based
// or query-result datasets, and the columnar shape results are normalized to.
package source

import "dataprofiler/domain/valuetype"

// Kind identifies the format of a profiling source.
type Kind string

const (
	KindCSV      Kind = "csv"
	KindParquet  Kind = "parquet"
	KindJSON     Kind = "json" // JSON lines
	KindXLSX     Kind = "xlsx"
	KindLog      Kind = "log"
	KindMarkdown Kind = "markdown"
	KindQuery    Kind = "query"
)

// Descriptor identifies a dataset to profile: a file path for file sources,
// or an opaque locator (e.g. a read-expression name) for query sources.
type Descriptor struct {
	Kind    Kind
	Locator string
}

// Options tunes a single profiling run (spec §4.1).
type Options struct {
	FastMode   bool
	SampleSize int // 0 means "no sampling limit"
	MaxTopK    int // top-K categorical values retained, default 20
}

// DefaultOptions returns the spec's defaults.
func DefaultOptions() Options {
	return Options{FastMode: false, SampleSize: 0, MaxTopK: 20}
}

// Table is the normalized columnar shape every reader produces: ordered
// column names alongside parallel columns of typed values. It is the
// concrete replacement (spec §9) for dynamic anonymous record-passing.
type Table struct {
	Columns []string
	Data    [][]valuetype.Value // Data[c][r] is column c, row r
}

// RowCount returns the number of rows, or 0 for an empty table.
func (t *Table) RowCount() int {
	if len(t.Data) == 0 {
		return 0
	}
	return len(t.Data[0])
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// Column returns the values for the named column and whether it exists.
func (t *Table) Column(name string) ([]valuetype.Value, bool) {
	for i, c := range t.Columns {
		if c == name {
			return t.Data[i], true
		}
	}
	return nil, false
}

// QueryResult is the concrete shape of an analytical query's output (spec §9),
// used by QueryResultProfiler instead of dynamic record maps.
type QueryResult struct {
	Columns []string
	Rows    []map[string]valuetype.Value
}

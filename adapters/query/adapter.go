// Package query implements the analytical query engine boundary: it loads
// a source descriptor into an in-memory columnar Table and answers the
// aggregate questions the profiler asks of {read_expr}, in place of the
// external SQL engine the core specification assumes (spec §4.1, §6).
package query

import (
	"context"
	"fmt"
	"os"
	"sync"

	"dataprofiler/domain/source"
	"dataprofiler/domain/valuetype"
	"dataprofiler/internal/errors"
	"dataprofiler/ports"
)

// InMemoryAdapter implements ports.QueryAdapter by reading the whole source
// into memory once and serving every subsequent call from that Table.
// This mirrors how the profiling core's own ProfilerAdapter worked directly
// over in-memory payloads rather than issuing SQL against a remote engine.
type InMemoryAdapter struct {
	mu      sync.Mutex
	tables  map[string]*source.Table
	counter int
}

// NewInMemoryAdapter constructs an adapter with no registered sources.
func NewInMemoryAdapter() *InMemoryAdapter {
	return &InMemoryAdapter{tables: make(map[string]*source.Table)}
}

// Register loads desc into memory and returns a synthetic read expression
// naming it, analogous to the spec's read_csv('path')-style handle.
func (a *InMemoryAdapter) Register(ctx context.Context, desc source.Descriptor) (string, error) {
	table, err := a.load(desc)
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.counter++
	readExpr := fmt.Sprintf("%s('%s')#%d", desc.Kind, desc.Locator, a.counter)
	a.tables[readExpr] = table
	return readExpr, nil
}

func (a *InMemoryAdapter) load(desc source.Descriptor) (*source.Table, error) {
	switch desc.Kind {
	case source.KindCSV:
		return ReadCSV(desc.Locator)
	case source.KindXLSX:
		return ReadXLSX(desc.Locator)
	case source.KindJSON:
		return ReadJSONL(desc.Locator)
	case source.KindLog:
		return ReadLog(desc.Locator)
	case source.KindMarkdown:
		return readMarkdownFile(desc.Locator)
	case source.KindParquet:
		return nil, errors.UnsupportedFormat("parquet")
	case source.KindQuery:
		return nil, errors.UnsupportedFormat("query sources must be registered via RegisterTable")
	default:
		return nil, errors.UnsupportedFormat(string(desc.Kind))
	}
}

// readMarkdownFile converts the first embedded table in a markdown file to
// CSV and loads it through the shared CSV reader (spec §6).
func readMarkdownFile(path string) (*source.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	tables := ExtractMarkdownTables(string(raw))
	if len(tables) == 0 {
		return nil, errors.UnsupportedFormat("markdown file contains no tables")
	}
	return ReadMarkdownTable(tables[0])
}

// RegisterTable registers an already-materialized Table (used for query
// sources and markdown-extracted tables) under a synthetic read expression.
func (a *InMemoryAdapter) RegisterTable(name string, table *source.Table) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counter++
	readExpr := fmt.Sprintf("table('%s')#%d", name, a.counter)
	a.tables[readExpr] = table
	return readExpr
}

func (a *InMemoryAdapter) table(readExpr string) (*source.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tables[readExpr]
	if !ok {
		return nil, errors.QueryEngineFailure("lookup", fmt.Errorf("unknown read expression %q", readExpr))
	}
	return t, nil
}

// Schema discovers the declared type of each column by majority-coercion
// over its values.
func (a *InMemoryAdapter) Schema(ctx context.Context, readExpr string) ([]ports.ColumnSchema, error) {
	t, err := a.table(readExpr)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ColumnSchema, len(t.Columns))
	for i, name := range t.Columns {
		out[i] = ports.ColumnSchema{Name: name, DeclaredType: declaredType(t.Data[i])}
	}
	return out, nil
}

func declaredType(values []valuetype.Value) string {
	counts := map[valuetype.Kind]int{}
	for _, v := range values {
		counts[v.Kind]++
	}
	best := valuetype.KindText
	bestCount := -1
	for k, c := range counts {
		if k == valuetype.KindNull {
			continue
		}
		if c > bestCount {
			best, bestCount = k, c
		}
	}
	return string(best)
}

// ReadColumn returns the display-string form of a column's values.
func (a *InMemoryAdapter) ReadColumn(ctx context.Context, readExpr, column string) ([]string, error) {
	t, err := a.table(readExpr)
	if err != nil {
		return nil, err
	}
	values, ok := t.Column(column)
	if !ok {
		return nil, errors.QueryEngineFailure("read_column", fmt.Errorf("no such column %q", column))
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.AsString()
	}
	return out, nil
}

// ReadTable returns the full in-memory Table backing readExpr.
func (a *InMemoryAdapter) ReadTable(ctx context.Context, readExpr string) (*source.Table, error) {
	return a.table(readExpr)
}

// RowCount returns the row count of the table backing readExpr.
func (a *InMemoryAdapter) RowCount(ctx context.Context, readExpr string) (int64, error) {
	t, err := a.table(readExpr)
	if err != nil {
		return 0, err
	}
	return int64(t.RowCount()), nil
}

// Release drops the table backing readExpr from memory.
func (a *InMemoryAdapter) Release(ctx context.Context, readExpr string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.tables, readExpr)
	return nil
}

// FileSize stats a file source's byte size, used by the profile store's
// quick-find path.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.SourceUnreadable(path, err)
	}
	return info.Size(), nil
}

package ports

import (
	"context"

	"dataprofiler/domain/source"
)

// ColumnSchema is one entry of a QueryAdapter's discovered schema.
type ColumnSchema struct {
	Name         string
	DeclaredType string
}

// QueryAdapter is a thin abstraction over the analytical query engine: it
// registers a source under a read expression and executes aggregate SQL
// against it (spec §4.1, §6). Implementations own the engine connection.
type QueryAdapter interface {
	// Register makes desc available as {read_expr} for subsequent calls and
	// returns that expression.
	Register(ctx context.Context, desc source.Descriptor) (readExpr string, err error)

	// Schema discovers ordered (name, declared_type) pairs for readExpr.
	Schema(ctx context.Context, readExpr string) ([]ColumnSchema, error)

	// ReadColumn materializes a single column's values in row order.
	ReadColumn(ctx context.Context, readExpr, column string) ([]string, error)

	// ReadTable materializes the full table (used for in-memory aggregate
	// computation when no external engine is available).
	ReadTable(ctx context.Context, readExpr string) (*source.Table, error)

	// RowCount returns COUNT(*) for readExpr.
	RowCount(ctx context.Context, readExpr string) (int64, error)

	// Release frees resources associated with readExpr.
	Release(ctx context.Context, readExpr string) error
}

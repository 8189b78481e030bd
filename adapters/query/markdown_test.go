package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownTables(t *testing.T) {
	text := "# Report\n\n" +
		"| name | score |\n" +
		"|------|-------|\n" +
		"| **Alice** | 10 |\n" +
		"| Bob | 7 |\n\n" +
		"Some trailing prose.\n"

	tables := ExtractMarkdownTables(text)
	require.Len(t, tables, 1)

	table, err := ReadMarkdownTable(tables[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, table.Columns)
	assert.Equal(t, 2, table.RowCount())

	nameCol, _ := table.Column("name")
	assert.Equal(t, "Alice", nameCol[0].Text)
}

func TestExtractMarkdownTablesNone(t *testing.T) {
	tables := ExtractMarkdownTables("just some text\nwith no tables\n")
	assert.Empty(t, tables)
}

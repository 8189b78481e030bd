package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataprofiler/domain/valuetype"
)

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.csv")
	content := "name,age,active\nAlice,30,true\nBob,,false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "active"}, table.Columns)
	assert.Equal(t, 2, table.RowCount())

	ageCol, ok := table.Column("age")
	require.True(t, ok)
	assert.Equal(t, valuetype.KindFloat, ageCol[0].Kind)
	assert.True(t, ageCol[1].IsNull())

	activeCol, _ := table.Column("active")
	assert.Equal(t, valuetype.KindBool, activeCol[0].Kind)
	assert.True(t, activeCol[0].Bool)
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV("/nonexistent/path.csv")
	assert.Error(t, err)
}

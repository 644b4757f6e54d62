package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NotNil(t, db)

	err = db.Exec("CREATE TABLE runs (id TEXT PRIMARY KEY, pipeline_id TEXT, status TEXT, duration_ms INTEGER)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "runs")
	assert.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "text", colMap["id"])
	assert.Equal(t, "text", colMap["pipeline_id"])
	assert.Equal(t, "integer", colMap["duration_ms"])

	// PRAGMA table_info yields an empty result for unknown tables, not an
	// error.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

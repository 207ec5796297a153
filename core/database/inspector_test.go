package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Create a test table
	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE players (uuid TEXT PRIMARY KEY, display_name TEXT, updated_at INTEGER)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "players")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Map columns to map for easy assertion
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "text", colMap["uuid"])
	assert.Equal(t, "text", colMap["display_name"])
	assert.Equal(t, "integer", colMap["updated_at"])

	// Non-existent table
	// PRAGMA table_info returns empty result for non-existent table in SQLite, implies no error but empty columns
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestVerifyTablesReportsMissing(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)

	// Only two of the sync tables exist.
	assert.NoError(t, db.Exec("CREATE TABLE players (uuid TEXT PRIMARY KEY)").Error)
	assert.NoError(t, db.Exec("CREATE TABLE player_sessions (player_uuid TEXT PRIMARY KEY)").Error)

	missing, err := VerifyTables(db, SyncTables)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"player_inventory",
		"player_stashes",
		"player_stash_settings",
		"player_votes",
	}, missing)
}

func TestVerifyTablesCompleteSchema(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)

	for _, table := range SyncTables {
		assert.NoError(t, db.Exec("CREATE TABLE "+table+" (player_uuid TEXT PRIMARY KEY)").Error)
	}

	missing, err := VerifyTables(db, SyncTables)
	assert.NoError(t, err)
	assert.Empty(t, missing)
}

package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// SyncTables are the tables the sync services expect to exist. Used by the
// ping command to tell "connected but schema missing" apart from "down".
var SyncTables = []string{
	"players",
	"player_inventory",
	"player_sessions",
	"player_stashes",
	"player_stash_settings",
	"player_votes",
}

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		// SQLite uses PRAGMA table_info
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	// Normalize types to lowercase
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// VerifyTables checks that every expected sync table exists and has at least
// one column. It returns the names of missing tables.
func VerifyTables(db *gorm.DB, tables []string) ([]string, error) {
	var missing []string
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			missing = append(missing, table)
			continue
		}
		cols, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}
		if len(cols) == 0 {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

package inventory

import (
	"database/sql"
	"time"
)

// Player is one row of the players table. Created on the first write of any
// kind for a UUID, touched whenever any sub-record is written, never deleted
// by the sync layer.
type Player struct {
	UUID        string    `gorm:"column:uuid;primaryKey;size:36"`
	DisplayName string    `gorm:"column:display_name;size:64"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Player) TableName() string {
	return "players"
}

// Record is one row of the player_inventory table. The JSON payloads are
// opaque: whatever the game serialized is stored and returned byte for byte.
type Record struct {
	PlayerUUID        string         `gorm:"column:player_uuid;primaryKey;size:36"`
	InventoryVersion  int            `gorm:"column:inventory_version"`
	InventoryJSON     string         `gorm:"column:inventory_json"`
	HotbarManagerJSON sql.NullString `gorm:"column:hotbar_manager_json"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "player_inventory"
}

// PlayerInfo is the read model handed to API consumers.
type PlayerInfo struct {
	UUID        string    `json:"uuid"`
	DisplayName string    `json:"display_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

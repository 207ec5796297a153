package stash

import "time"

// Record is one row of the player_stashes table. A stash is a named item
// container; (player_uuid, stash_name) is unique per player. The items
// payload is opaque JSON, stored and returned verbatim.
type Record struct {
	PlayerUUID string    `gorm:"column:player_uuid;primaryKey;size:36"`
	StashName  string    `gorm:"column:stash_name;primaryKey;size:64"`
	StashSize  int       `gorm:"column:stash_size"`
	ItemsJSON  string    `gorm:"column:items_json"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "player_stashes"
}

// Settings is one row of the player_stash_settings table, holding the
// per-player stash count limit.
type Settings struct {
	PlayerUUID string    `gorm:"column:player_uuid;primaryKey;size:36"`
	MaxStashes int       `gorm:"column:max_stashes"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Settings) TableName() string {
	return "player_stash_settings"
}

// Limit is the tri-state result of a stash limit lookup. The stored value 0
// historically meant "use the system default", so callers must be able to
// tell "no row" from "explicit zero" from "explicit positive limit" instead
// of collapsing them into one int.
type Limit struct {
	// Present is false when the player has no settings row.
	Present bool `json:"present"`
	// Max is the stored limit; 0 with Present true is an explicit zero.
	Max int `json:"max"`
}

// EffectiveMax resolves the limit against the system default: an absent row
// or an explicit zero both fall back to the default.
func (l Limit) EffectiveMax(defaultMax int) int {
	if !l.Present || l.Max == 0 {
		return defaultMax
	}
	return l.Max
}

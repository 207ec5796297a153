package session

import "time"

// Session is one row of the player_sessions table. At most one row exists
// per player; the owning server is the only process allowed to mutate or
// delete it.
type Session struct {
	PlayerUUID string    `gorm:"column:player_uuid;primaryKey;size:36"`
	ServerID   string    `gorm:"column:server_id;size:64;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Session) TableName() string {
	return "player_sessions"
}

package vote

import "time"

// Tally is one append-only row of the player_votes table. A player's total
// is the sum over all of their rows; rows are never updated or deleted.
type Tally struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	PlayerUUID string    `gorm:"column:player_uuid;size:36;index"`
	Platform   string    `gorm:"column:platform;size:64"`
	Votes      int       `gorm:"column:votes"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (Tally) TableName() string {
	return "player_votes"
}

// TopVoter is one entry of the vote leaderboard. Name falls back to the
// player UUID when no display name is known.
type TopVoter struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}

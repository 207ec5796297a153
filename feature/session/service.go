package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidIdentifier is returned when a player UUID or server id is empty.
// Such calls are rejected before any storage round trip.
var ErrInvalidIdentifier = errors.New("empty player uuid or server id")

// Service coordinates session ownership across servers. A session row in
// player_sessions means "this server is authoritative for this player";
// every mutation below is a single atomic statement so two servers racing
// for the same player can never both win.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new session coordinator.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// CurrentOwner returns the server id currently holding the player's session,
// or "" if no session row exists. Read-only.
func (s *Service) CurrentOwner(ctx context.Context, playerUUID string) (string, error) {
	if playerUUID == "" {
		return "", ErrInvalidIdentifier
	}
	var row Session
	err := s.db.WithContext(ctx).First(&row, "player_uuid = ?", playerUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ServerID, nil
}

// Claim asserts exclusive ownership of the player's session for serverID.
//
// It succeeds when no session row exists (a fresh claim) or when the row is
// already owned by serverID (an idempotent re-claim, refreshing the
// timestamp). It fails without mutation when another server holds the row.
//
// The claim is an owner-guarded refresh followed, when no owned row matched,
// by a conditional insert and a confirming read. Each statement is atomic on
// its own, so no interleaving of concurrent claims lets two servers both
// succeed: the refresh touches nothing unless the caller already owns the
// row, and exactly one insert wins the fresh row.
//
// The insert's affected count is not trusted as proof of a fresh claim. On
// MySQL the portable conflict clause arrives as ON DUPLICATE KEY UPDATE of
// the key to itself, and with CLIENT_FOUND_ROWS a row owned by another
// server still reports one affected row. The read settles who actually holds
// the row; whichever insert won is the row the read sees.
func (s *Service) Claim(ctx context.Context, playerUUID, serverID string) (bool, error) {
	if playerUUID == "" || serverID == "" {
		return false, ErrInvalidIdentifier
	}

	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&Session{}).
		Where("player_uuid = ? AND server_id = ?", playerUUID, serverID).
		Update("updated_at", now)
	if res.Error != nil {
		// Fail closed: a server must never assume ownership it could not
		// confirm against the store.
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// No row owned by us. Try to win the fresh row.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		DoNothing: true,
	}).Create(&Session{PlayerUUID: playerUUID, ServerID: serverID, UpdatedAt: now}).Error; err != nil {
		return false, err
	}

	owner, err := s.CurrentOwner(ctx, playerUUID)
	if err != nil {
		return false, err
	}
	return owner == serverID, nil
}

// Release deletes the player's session row, but only if serverID owns it.
// A release from a non-owning server is a silent no-op. Idempotent.
func (s *Service) Release(ctx context.Context, playerUUID, serverID string) error {
	if playerUUID == "" || serverID == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("player_uuid = ? AND server_id = ?", playerUUID, serverID).
		Delete(&Session{}).Error
}

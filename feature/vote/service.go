package vote

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidIdentifier is returned for empty player UUIDs or platform names.
var ErrInvalidIdentifier = errors.New("empty player uuid or platform")

// Service records vote-site callbacks as append-only tally rows. There is no
// coordination requirement here: totals are additive and every row counts.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new vote service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Add appends a tally row and returns the player's new total across all
// platforms, handy for milestone checks.
func (s *Service) Add(ctx context.Context, playerUUID, platform string, count int) (int, error) {
	if playerUUID == "" || platform == "" {
		return 0, ErrInvalidIdentifier
	}
	row := Tally{
		PlayerUUID: playerUUID,
		Platform:   platform,
		Votes:      count,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return s.Total(ctx, playerUUID)
}

// Total returns the player's vote total across all platforms.
func (s *Service) Total(ctx context.Context, playerUUID string) (int, error) {
	if playerUUID == "" {
		return 0, ErrInvalidIdentifier
	}
	var total int
	err := s.db.WithContext(ctx).Model(&Tally{}).
		Where("player_uuid = ?", playerUUID).
		Select("COALESCE(SUM(votes), 0)").
		Scan(&total).Error
	return total, err
}

// PlatformTotal returns the player's vote total on one platform.
func (s *Service) PlatformTotal(ctx context.Context, playerUUID, platform string) (int, error) {
	if playerUUID == "" || platform == "" {
		return 0, ErrInvalidIdentifier
	}
	var total int
	err := s.db.WithContext(ctx).Model(&Tally{}).
		Where("player_uuid = ? AND platform = ?", playerUUID, platform).
		Select("COALESCE(SUM(votes), 0)").
		Scan(&total).Error
	return total, err
}

// Top returns the highest voters with display names resolved from the
// players table, falling back to the UUID for unknown players.
func (s *Service) Top(ctx context.Context, limit int) ([]TopVoter, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopVoter
	err := s.db.WithContext(ctx).
		Table("player_votes v").
		Select("COALESCE(NULLIF(p.display_name, ''), v.player_uuid) AS name, SUM(v.votes) AS votes").
		Joins("LEFT JOIN players p ON v.player_uuid = p.uuid").
		Group("v.player_uuid, p.display_name").
		Order("votes DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

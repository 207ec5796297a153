package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidIdentifier is returned for empty player UUIDs, before any
	// storage round trip.
	ErrInvalidIdentifier = errors.New("empty player uuid")
	// ErrNoInventoryRow is returned by SetHotbarManager when the player has
	// no inventory record to attach the hotbar payload to.
	ErrNoInventoryRow = errors.New("no inventory record for player")
)

// Service reads and writes player identity and inventory records. Inventory
// writes touch two tables and are committed as one transaction: the players
// upsert and the player_inventory upsert either both land or neither does.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new inventory synchronizer.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// GetInventory returns the player's inventory payload, or nil if the player
// has no inventory record. Absence is a normal outcome, not an error.
func (s *Service) GetInventory(ctx context.Context, playerUUID string) (*string, error) {
	if playerUUID == "" {
		return nil, ErrInvalidIdentifier
	}
	var row Record
	err := s.db.WithContext(ctx).
		Select("inventory_json").
		First(&row, "player_uuid = ?", playerUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.InventoryJSON, nil
}

// SetInventory upserts the player row and the inventory record in one
// transaction. The display name is only overwritten when a non-empty value
// is supplied; the inventory payload and version are replaced wholesale.
// On any failure the transaction rolls back and no partial write is visible.
func (s *Service) SetInventory(ctx context.Context, playerUUID, displayName, inventoryJSON string, version int) error {
	if playerUUID == "" {
		return ErrInvalidIdentifier
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		playerAssigns := map[string]any{"updated_at": now}
		if displayName != "" {
			playerAssigns["display_name"] = displayName
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.Assignments(playerAssigns),
		}).Create(&Player{
			UUID:        playerUUID,
			DisplayName: displayName,
			UpdatedAt:   now,
		}).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "player_uuid"}},
			DoUpdates: clause.Assignments(map[string]any{
				"inventory_version": version,
				"inventory_json":    inventoryJSON,
				"updated_at":        now,
			}),
		}).Create(&Record{
			PlayerUUID:       playerUUID,
			InventoryVersion: version,
			InventoryJSON:    inventoryJSON,
			UpdatedAt:        now,
		}).Error
	})
}

// GetHotbarManager returns the player's hotbar payload, or nil when the
// player has no inventory record or has never stored one.
func (s *Service) GetHotbarManager(ctx context.Context, playerUUID string) (*string, error) {
	if playerUUID == "" {
		return nil, ErrInvalidIdentifier
	}
	var row Record
	err := s.db.WithContext(ctx).
		Select("hotbar_manager_json").
		First(&row, "player_uuid = ?", playerUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !row.HotbarManagerJSON.Valid {
		return nil, nil
	}
	return &row.HotbarManagerJSON.String, nil
}

// SetHotbarManager replaces only the hotbar payload of an existing inventory
// record. A player without an inventory record is reported as
// ErrNoInventoryRow; the hotbar never creates the record on its own.
func (s *Service) SetHotbarManager(ctx context.Context, playerUUID, hotbarJSON string) error {
	if playerUUID == "" {
		return ErrInvalidIdentifier
	}
	res := s.db.WithContext(ctx).Model(&Record{}).
		Where("player_uuid = ?", playerUUID).
		Updates(map[string]any{
			"hotbar_manager_json": hotbarJSON,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoInventoryRow
	}
	return nil
}

// GetPlayer returns the player's identity record, or nil if unknown.
func (s *Service) GetPlayer(ctx context.Context, playerUUID string) (*PlayerInfo, error) {
	if playerUUID == "" {
		return nil, ErrInvalidIdentifier
	}
	var row Player
	err := s.db.WithContext(ctx).First(&row, "uuid = ?", playerUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &PlayerInfo{
		UUID:        row.UUID,
		DisplayName: row.DisplayName,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

package stash

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidIdentifier is returned for empty player UUIDs or stash
	// names, before any storage round trip.
	ErrInvalidIdentifier = errors.New("empty player uuid or stash name")
	// ErrStashNotFound is returned by Delete and Rename when no row matched.
	ErrStashNotFound = errors.New("stash not found")
)

// Service reads and writes named stash containers with a per-process
// write-through cache in front of the store.
//
// The cache holds one player's full collection once it has been loaded by a
// full read. Writes go to the store first and touch memory only after the
// commit succeeds, so the cached collection never runs ahead of the store.
// Correctness across servers comes from the store plus session exclusivity,
// not from this cache.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *cache
	group  singleflight.Group
}

// NewService creates a new stash service with an empty cache.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger, cache: newCache()}
}

// Get returns one stash, or nil if it does not exist. The first read for an
// unloaded player pulls the full collection into memory; once loaded, hits
// are served from memory and a miss consults the store directly for that one
// name without reloading.
func (s *Service) Get(ctx context.Context, playerUUID, name string) (*Record, error) {
	if playerUUID == "" || name == "" {
		return nil, ErrInvalidIdentifier
	}

	if !s.cache.loaded(playerUUID) {
		records, err := s.List(ctx, playerUUID)
		if err != nil {
			return nil, err
		}
		for i := range records {
			if records[i].StashName == name {
				return &records[i], nil
			}
		}
		return nil, nil
	}

	if rec, ok := s.cache.get(playerUUID, name); ok {
		return &rec, nil
	}

	var row Record
	err := s.db.WithContext(ctx).
		First(&row, "player_uuid = ? AND stash_name = ?", playerUUID, name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all of the player's stashes. The first call loads the full
// collection from the store and caches it; subsequent calls are served from
// memory until Unload. Concurrent first loads for one player are collapsed
// into a single store query.
func (s *Service) List(ctx context.Context, playerUUID string) ([]Record, error) {
	if playerUUID == "" {
		return nil, ErrInvalidIdentifier
	}

	if records, ok := s.cache.snapshot(playerUUID); ok {
		return records, nil
	}

	v, err, _ := s.group.Do(playerUUID, func() (any, error) {
		// Re-check: another caller may have finished the load while this
		// one waited on the flight group.
		if records, ok := s.cache.snapshot(playerUUID); ok {
			return records, nil
		}
		var rows []Record
		if err := s.db.WithContext(ctx).
			Where("player_uuid = ?", playerUUID).
			Order("stash_name").
			Find(&rows).Error; err != nil {
			return nil, err
		}
		s.cache.replace(playerUUID, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Record), nil
}

// Save creates or replaces one stash. The store commit happens first; the
// cached collection is updated only on success.
func (s *Service) Save(ctx context.Context, playerUUID, name string, size int, itemsJSON string) error {
	if playerUUID == "" || name == "" {
		return ErrInvalidIdentifier
	}

	now := time.Now().UTC()
	rec := Record{
		PlayerUUID: playerUUID,
		StashName:  name,
		StashSize:  size,
		ItemsJSON:  itemsJSON,
		UpdatedAt:  now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_uuid"}, {Name: "stash_name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"stash_size": size,
			"items_json": itemsJSON,
			"updated_at": now,
		}),
	}).Create(&rec).Error
	if err != nil {
		return err
	}

	s.cache.put(playerUUID, rec)
	return nil
}

// Delete removes one stash. ErrStashNotFound when no row matched.
func (s *Service) Delete(ctx context.Context, playerUUID, name string) error {
	if playerUUID == "" || name == "" {
		return ErrInvalidIdentifier
	}

	res := s.db.WithContext(ctx).
		Where("player_uuid = ? AND stash_name = ?", playerUUID, name).
		Delete(&Record{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStashNotFound
	}

	s.cache.remove(playerUUID, name)
	return nil
}

// Rename changes a stash's name, keeping size and items. ErrStashNotFound
// when no row matched.
func (s *Service) Rename(ctx context.Context, playerUUID, oldName, newName string) error {
	if playerUUID == "" || oldName == "" || newName == "" {
		return ErrInvalidIdentifier
	}

	res := s.db.WithContext(ctx).Model(&Record{}).
		Where("player_uuid = ? AND stash_name = ?", playerUUID, oldName).
		Updates(map[string]any{
			"stash_name": newName,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStashNotFound
	}

	s.cache.rename(playerUUID, oldName, newName)
	return nil
}

// Unload discards the player's cached collection. Called by the host's
// disconnect hook; the next full read goes back to the store.
func (s *Service) Unload(playerUUID string) {
	if playerUUID == "" {
		return
	}
	s.cache.drop(playerUUID)
}

// MaxStashes returns the player's stash limit as a tri-state. Not cached.
func (s *Service) MaxStashes(ctx context.Context, playerUUID string) (Limit, error) {
	if playerUUID == "" {
		return Limit{}, ErrInvalidIdentifier
	}
	var row Settings
	err := s.db.WithContext(ctx).First(&row, "player_uuid = ?", playerUUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Limit{}, nil
	}
	if err != nil {
		return Limit{}, err
	}
	return Limit{Present: true, Max: row.MaxStashes}, nil
}

// SetMaxStashes upserts the player's stash limit. Not cached.
func (s *Service) SetMaxStashes(ctx context.Context, playerUUID string, maxStashes int) error {
	if playerUUID == "" {
		return ErrInvalidIdentifier
	}
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_uuid"}},
		DoUpdates: clause.Assignments(map[string]any{
			"max_stashes": maxStashes,
			"updated_at":  now,
		}),
	}).Create(&Settings{
		PlayerUUID: playerUUID,
		MaxStashes: maxStashes,
		UpdatedAt:  now,
	}).Error
}

package sync

import (
	"context"
	"errors"

	"hysync/feature/inventory"
	"hysync/feature/session"
	"hysync/feature/stash"
	"hysync/feature/vote"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options configures the facade for one server process.
type Options struct {
	// ServerID is this process's identity for session claims.
	ServerID string
	// DefaultMaxStashes resolves absent or zero stash limits.
	DefaultMaxStashes int
}

// Facade is the one capability set in-process collaborators use to reach the
// shared player database. It composes the session coordinator, the inventory
// synchronizer, the stash service and the vote service, all constructed
// eagerly here and shared for the life of the process.
//
// The facade's contract is deliberately blunt: writes report bool, reads
// report a value plus ok. Store failures are logged and absorbed; they never
// propagate to callers as errors, and "row absent" is a normal outcome, not
// a fault. Safe for concurrent use from any number of goroutines.
type Facade struct {
	session   *session.Service
	inventory *inventory.Service
	stash     *stash.Service
	votes     *vote.Service
	opts      Options
	logger    *zap.Logger
}

// New builds the facade and all sub-services against one database handle.
func New(db *gorm.DB, logg *zap.Logger, opts Options) *Facade {
	if opts.DefaultMaxStashes <= 0 {
		opts.DefaultMaxStashes = 3
	}
	return &Facade{
		session:   session.NewService(db, logg),
		inventory: inventory.NewService(db, logg),
		stash:     stash.NewService(db, logg),
		votes:     vote.NewService(db, logg),
		opts:      opts,
		logger:    logg,
	}
}

// Session exposes the session coordinator for route registration.
func (f *Facade) Session() *session.Service { return f.session }

// Inventory exposes the inventory synchronizer for route registration.
func (f *Facade) Inventory() *inventory.Service { return f.inventory }

// Stash exposes the stash service for route registration.
func (f *Facade) Stash() *stash.Service { return f.stash }

// Votes exposes the vote service for route registration.
func (f *Facade) Votes() *vote.Service { return f.votes }

// ServerID returns this process's identity for session claims.
func (f *Facade) ServerID() string { return f.opts.ServerID }

// DefaultMaxStashes returns the configured system-wide stash limit.
func (f *Facade) DefaultMaxStashes() int { return f.opts.DefaultMaxStashes }

// AutoMigrate creates or updates the six sync tables. Intended for first-run
// bootstrap and tests; production schemas are usually managed externally.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&inventory.Player{},
		&inventory.Record{},
		&session.Session{},
		&stash.Record{},
		&stash.Settings{},
		&vote.Tally{},
	)
}

// normalize validates a player UUID and returns its canonical string form.
// Anything that does not parse is rejected here, before a store round trip.
func (f *Facade) normalize(playerUUID string) (string, bool) {
	id, err := uuid.Parse(playerUUID)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// --- Session ---

// GetCurrentServerID returns the server currently holding the player's
// session, with ok false when there is none (or the store failed).
func (f *Facade) GetCurrentServerID(ctx context.Context, playerUUID string) (string, bool) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return "", false
	}
	owner, err := f.session.CurrentOwner(ctx, p)
	if err != nil {
		f.logger.Error("session owner lookup failed", zap.String("player", p), zap.Error(err))
		return "", false
	}
	return owner, owner != ""
}

// ClaimSession claims the player for this server. False means another server
// holds the session, the arguments were invalid, or the store could not
// confirm the claim; in every case this server must not treat the player as
// its own.
func (f *Facade) ClaimSession(ctx context.Context, playerUUID string) bool {
	p, ok := f.normalize(playerUUID)
	if !ok || f.opts.ServerID == "" {
		return false
	}
	claimed, err := f.session.Claim(ctx, p, f.opts.ServerID)
	if err != nil {
		f.logger.Error("session claim failed", zap.String("player", p), zap.Error(err))
		return false
	}
	return claimed
}

// ReleaseSession releases the player's session if this server owns it.
func (f *Facade) ReleaseSession(ctx context.Context, playerUUID string) {
	p, ok := f.normalize(playerUUID)
	if !ok || f.opts.ServerID == "" {
		return
	}
	if err := f.session.Release(ctx, p, f.opts.ServerID); err != nil {
		f.logger.Error("session release failed", zap.String("player", p), zap.Error(err))
	}
}

// --- Inventory ---

// GetInventory returns the player's inventory payload verbatim.
func (f *Facade) GetInventory(ctx context.Context, playerUUID string) (string, bool) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return "", false
	}
	doc, err := f.inventory.GetInventory(ctx, p)
	if err != nil {
		f.logger.Error("inventory read failed", zap.String("player", p), zap.Error(err))
		return "", false
	}
	if doc == nil {
		return "", false
	}
	return *doc, true
}

// SetInventory stores the inventory payload and upserts the player row in
// one transaction. An empty display name leaves any existing name in place.
func (f *Facade) SetInventory(ctx context.Context, playerUUID, displayName, inventoryJSON string, version int) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.inventory.SetInventory(ctx, p, displayName, inventoryJSON, version); err != nil {
		f.logger.Error("inventory write failed", zap.String("player", p), zap.Error(err))
		return false
	}
	return true
}

// GetHotbarManager returns the player's hotbar payload verbatim.
func (f *Facade) GetHotbarManager(ctx context.Context, playerUUID string) (string, bool) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return "", false
	}
	doc, err := f.inventory.GetHotbarManager(ctx, p)
	if err != nil {
		f.logger.Error("hotbar read failed", zap.String("player", p), zap.Error(err))
		return "", false
	}
	if doc == nil {
		return "", false
	}
	return *doc, true
}

// SetHotbarManager stores the hotbar payload for a player who already has an
// inventory record.
func (f *Facade) SetHotbarManager(ctx context.Context, playerUUID, hotbarJSON string) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.inventory.SetHotbarManager(ctx, p, hotbarJSON); err != nil {
		f.logger.Error("hotbar write failed", zap.String("player", p), zap.Error(err))
		return false
	}
	return true
}

// GetPlayer returns the player's identity record.
func (f *Facade) GetPlayer(ctx context.Context, playerUUID string) (*inventory.PlayerInfo, bool) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return nil, false
	}
	info, err := f.inventory.GetPlayer(ctx, p)
	if err != nil {
		f.logger.Error("player lookup failed", zap.String("player", p), zap.Error(err))
		return nil, false
	}
	if info == nil {
		return nil, false
	}
	return info, true
}

// --- Stash ---

// GetStash returns one stash record.
func (f *Facade) GetStash(ctx context.Context, playerUUID, name string) (*stash.Record, bool) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return nil, false
	}
	rec, err := f.stash.Get(ctx, p, name)
	if err != nil {
		f.logger.Error("stash read failed", zap.String("player", p), zap.Error(err))
		return nil, false
	}
	if rec == nil {
		return nil, false
	}
	return rec, true
}

// GetStashes returns all of the player's stashes. An empty slice is a valid
// result for a player with no stashes.
func (f *Facade) GetStashes(ctx context.Context, playerUUID string) []stash.Record {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return nil
	}
	records, err := f.stash.List(ctx, p)
	if err != nil {
		f.logger.Error("stash list failed", zap.String("player", p), zap.Error(err))
		return nil
	}
	return records
}

// SaveStash creates or replaces one stash.
func (f *Facade) SaveStash(ctx context.Context, playerUUID, name string, size int, itemsJSON string) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.stash.Save(ctx, p, name, size, itemsJSON); err != nil {
		f.logger.Error("stash save failed", zap.String("player", p), zap.Error(err))
		return false
	}
	return true
}

// DeleteStash removes one stash. False when it did not exist.
func (f *Facade) DeleteStash(ctx context.Context, playerUUID, name string) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.stash.Delete(ctx, p, name); err != nil {
		if !errors.Is(err, stash.ErrStashNotFound) {
			f.logger.Error("stash delete failed", zap.String("player", p), zap.Error(err))
		}
		return false
	}
	return true
}

// RenameStash renames one stash. False when it did not exist.
func (f *Facade) RenameStash(ctx context.Context, playerUUID, oldName, newName string) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.stash.Rename(ctx, p, oldName, newName); err != nil {
		if !errors.Is(err, stash.ErrStashNotFound) {
			f.logger.Error("stash rename failed", zap.String("player", p), zap.Error(err))
		}
		return false
	}
	return true
}

// GetMaxStashes returns the player's stash limit tri-state; absent rows and
// store failures both read as an absent limit.
func (f *Facade) GetMaxStashes(ctx context.Context, playerUUID string) stash.Limit {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return stash.Limit{}
	}
	limit, err := f.stash.MaxStashes(ctx, p)
	if err != nil {
		f.logger.Error("stash limit read failed", zap.String("player", p), zap.Error(err))
		return stash.Limit{}
	}
	return limit
}

// SetMaxStashes sets the player's stash limit.
func (f *Facade) SetMaxStashes(ctx context.Context, playerUUID string, max int) bool {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return false
	}
	if err := f.stash.SetMaxStashes(ctx, p, max); err != nil {
		f.logger.Error("stash limit write failed", zap.String("player", p), zap.Error(err))
		return false
	}
	return true
}

// UnloadCache discards the player's cached stash collection. The host must
// call this from its player-disconnect hook.
func (f *Facade) UnloadCache(playerUUID string) {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return
	}
	f.stash.Unload(p)
}

// --- Votes ---

// AddVote appends votes for a player and returns the new cross-platform
// total, or -1 on failure.
func (f *Facade) AddVote(ctx context.Context, playerUUID, platform string, count int) int {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return -1
	}
	total, err := f.votes.Add(ctx, p, platform, count)
	if err != nil {
		f.logger.Error("vote append failed", zap.String("player", p), zap.Error(err))
		return -1
	}
	return total
}

// GetTotalVotes returns the player's vote total across all platforms.
func (f *Facade) GetTotalVotes(ctx context.Context, playerUUID string) int {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return 0
	}
	total, err := f.votes.Total(ctx, p)
	if err != nil {
		f.logger.Error("vote total failed", zap.String("player", p), zap.Error(err))
		return 0
	}
	return total
}

// GetPlatformVotes returns the player's vote total on one vote site.
func (f *Facade) GetPlatformVotes(ctx context.Context, playerUUID, platform string) int {
	p, ok := f.normalize(playerUUID)
	if !ok {
		return 0
	}
	total, err := f.votes.PlatformTotal(ctx, p, platform)
	if err != nil {
		f.logger.Error("vote platform total failed", zap.String("player", p), zap.Error(err))
		return 0
	}
	return total
}

// GetTopVoters returns the vote leaderboard.
func (f *Facade) GetTopVoters(ctx context.Context, limit int) []vote.TopVoter {
	voters, err := f.votes.Top(ctx, limit)
	if err != nil {
		f.logger.Error("vote leaderboard failed", zap.Error(err))
		return nil
	}
	return voters
}

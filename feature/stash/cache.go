package stash

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// cache is the per-process copy of loaded stash collections, keyed by player
// UUID. A player is either absent (unloaded) or present with the full set of
// their stash rows. The store is always the source of truth: entries are
// only ever written after a successful store commit, and dropped wholesale
// on disconnect.
//
// The outer map is safe for concurrent access; each entry guards its slice
// with its own RWMutex. Entry locks are held only for in-memory work, never
// across a store call.
type cache struct {
	players *xsync.MapOf[string, *cacheEntry]
}

type cacheEntry struct {
	mu      sync.RWMutex
	records []Record
}

func newCache() *cache {
	return &cache{players: xsync.NewMapOf[string, *cacheEntry]()}
}

// loaded reports whether the player's collection is in memory.
func (c *cache) loaded(playerUUID string) bool {
	_, ok := c.players.Load(playerUUID)
	return ok
}

// replace installs the full collection for a player, moving them to the
// loaded state.
func (c *cache) replace(playerUUID string, records []Record) {
	entry := &cacheEntry{records: append([]Record(nil), records...)}
	c.players.Store(playerUUID, entry)
}

// snapshot returns a copy of the player's collection and whether the player
// is loaded.
func (c *cache) snapshot(playerUUID string) ([]Record, bool) {
	entry, ok := c.players.Load(playerUUID)
	if !ok {
		return nil, false
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	return append([]Record(nil), entry.records...), true
}

// get returns a copy of one cached record. The second result is false when
// the player is unloaded OR the name is not in the loaded collection; the
// caller decides whether to consult the store.
func (c *cache) get(playerUUID, name string) (Record, bool) {
	entry, ok := c.players.Load(playerUUID)
	if !ok {
		return Record{}, false
	}
	entry.mu.RLock()
	defer entry.mu.RUnlock()
	for _, r := range entry.records {
		if r.StashName == name {
			return r, true
		}
	}
	return Record{}, false
}

// put inserts or replaces one record in the player's loaded collection.
// No-op while unloaded: a write must never fabricate a partial collection
// that a later full read would trust.
func (c *cache) put(playerUUID string, rec Record) {
	entry, ok := c.players.Load(playerUUID)
	if !ok {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	for i, r := range entry.records {
		if r.StashName == rec.StashName {
			entry.records[i] = rec
			return
		}
	}
	entry.records = append(entry.records, rec)
}

// remove deletes one record from the player's loaded collection, if loaded.
func (c *cache) remove(playerUUID, name string) {
	entry, ok := c.players.Load(playerUUID)
	if !ok {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	for i, r := range entry.records {
		if r.StashName == name {
			entry.records = append(entry.records[:i], entry.records[i+1:]...)
			return
		}
	}
}

// rename rewrites one record's name in place, keeping its position.
func (c *cache) rename(playerUUID, oldName, newName string) {
	entry, ok := c.players.Load(playerUUID)
	if !ok {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	for i, r := range entry.records {
		if r.StashName == oldName {
			entry.records[i].StashName = newName
			return
		}
	}
}

// drop discards the player's collection, returning them to unloaded.
func (c *cache) drop(playerUUID string) {
	c.players.Delete(playerUUID)
}

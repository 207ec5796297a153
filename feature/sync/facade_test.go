package sync_test

import (
	"context"
	"testing"

	"hysync/core/database"
	"hysync/feature/sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const (
	playerA = "11111111-1111-1111-1111-111111111111"
	playerB = "22222222-2222-2222-2222-222222222222"
)

func setupFacade(t *testing.T, serverID string) *sync.Facade {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, sync.AutoMigrate(db))
	return sync.New(db, zap.NewNop(), sync.Options{ServerID: serverID, DefaultMaxStashes: 3})
}

func TestInvalidUUIDNeverReachesTheStore(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	assert.False(t, f.SetInventory(ctx, "not-a-uuid", "Steve", "[]", 4))
	_, ok := f.GetInventory(ctx, "not-a-uuid")
	assert.False(t, ok)
	assert.False(t, f.ClaimSession(ctx, "not-a-uuid"))
	assert.False(t, f.SaveStash(ctx, "", "vault", 27, "[]"))
	assert.Equal(t, -1, f.AddVote(ctx, "not-a-uuid", "topsites", 1))
}

func TestUUIDFormsCanonicalize(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	// Written uppercase, read lowercase: both name the same row.
	upper := "11111111-1111-1111-1111-11111111111A"
	lower := "11111111-1111-1111-1111-11111111111a"
	assert.True(t, f.SetInventory(ctx, upper, "Steve", `["dirt"]`, 4))

	doc, ok := f.GetInventory(ctx, lower)
	assert.True(t, ok)
	assert.Equal(t, `["dirt"]`, doc)
}

func TestSessionClaimAndHandoff(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	_, ok := f.GetCurrentServerID(ctx, playerA)
	assert.False(t, ok)

	assert.True(t, f.ClaimSession(ctx, playerA))
	owner, ok := f.GetCurrentServerID(ctx, playerA)
	assert.True(t, ok)
	assert.Equal(t, "lobby-1", owner)

	// Re-claim by the same server stays true.
	assert.True(t, f.ClaimSession(ctx, playerA))

	f.ReleaseSession(ctx, playerA)
	_, ok = f.GetCurrentServerID(ctx, playerA)
	assert.False(t, ok)
}

func TestClaimRequiresServerIdentity(t *testing.T) {
	f := setupFacade(t, "")
	assert.False(t, f.ClaimSession(context.Background(), playerA))
}

func TestInventoryRoundTripThroughFacade(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	_, ok := f.GetInventory(ctx, playerA)
	assert.False(t, ok)

	payload := `{"slots":[{"id":"hytale:torch","count":12}]}`
	assert.True(t, f.SetInventory(ctx, playerA, "Steve", payload, 4))

	doc, ok := f.GetInventory(ctx, playerA)
	assert.True(t, ok)
	assert.Equal(t, payload, doc)

	info, ok := f.GetPlayer(ctx, playerA)
	assert.True(t, ok)
	assert.Equal(t, "Steve", info.DisplayName)
}

func TestHotbarNeedsInventoryFirst(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	assert.False(t, f.SetHotbarManager(ctx, playerA, `{"active":0}`))

	assert.True(t, f.SetInventory(ctx, playerA, "Steve", "[]", 4))
	_, ok := f.GetHotbarManager(ctx, playerA)
	assert.False(t, ok)

	assert.True(t, f.SetHotbarManager(ctx, playerA, `{"active":0}`))
	doc, ok := f.GetHotbarManager(ctx, playerA)
	assert.True(t, ok)
	assert.Equal(t, `{"active":0}`, doc)
}

func TestStashLifecycleThroughFacade(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	assert.True(t, f.SaveStash(ctx, playerA, "vault", 27, "[]"))
	assert.True(t, f.SaveStash(ctx, playerA, "ores", 54, `["hytale:iron_ore"]`))

	records := f.GetStashes(ctx, playerA)
	assert.Len(t, records, 2)

	assert.True(t, f.RenameStash(ctx, playerA, "vault", "vault2"))
	assert.False(t, f.RenameStash(ctx, playerA, "vault", "vault3"))

	rec, ok := f.GetStash(ctx, playerA, "vault2")
	assert.True(t, ok)
	assert.Equal(t, 27, rec.StashSize)

	assert.True(t, f.DeleteStash(ctx, playerA, "vault2"))
	assert.False(t, f.DeleteStash(ctx, playerA, "vault2"))

	f.UnloadCache(playerA)
	assert.Len(t, f.GetStashes(ctx, playerA), 1)
}

func TestStashLimitTriState(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	limit := f.GetMaxStashes(ctx, playerA)
	assert.False(t, limit.Present)
	assert.Equal(t, 3, limit.EffectiveMax(f.DefaultMaxStashes()))

	assert.True(t, f.SetMaxStashes(ctx, playerA, 0))
	limit = f.GetMaxStashes(ctx, playerA)
	assert.True(t, limit.Present)
	assert.Equal(t, 3, limit.EffectiveMax(f.DefaultMaxStashes()))

	assert.True(t, f.SetMaxStashes(ctx, playerA, 10))
	limit = f.GetMaxStashes(ctx, playerA)
	assert.True(t, limit.Present)
	assert.Equal(t, 10, limit.EffectiveMax(f.DefaultMaxStashes()))
}

func TestVoteFlowThroughFacade(t *testing.T) {
	f := setupFacade(t, "lobby-1")
	ctx := context.Background()

	assert.Equal(t, 0, f.GetTotalVotes(ctx, playerA))
	assert.Equal(t, 1, f.AddVote(ctx, playerA, "topsites", 1))
	assert.Equal(t, 3, f.AddVote(ctx, playerA, "serverlist", 2))
	assert.Equal(t, 1, f.AddVote(ctx, playerB, "topsites", 1))
	assert.Equal(t, 1, f.GetPlatformVotes(ctx, playerA, "topsites"))

	assert.True(t, f.SetInventory(ctx, playerA, "Steve", "[]", 4))
	top := f.GetTopVoters(ctx, 10)
	assert.Len(t, top, 2)
	assert.Equal(t, "Steve", top[0].Name)
	assert.Equal(t, 3, top[0].Votes)
}

package migration_test

import (
	"context"
	"testing"

	"hysync/feature/migration"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStashRunImportsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, playerA+"/stashes.json", `{
		"maxStashes": 5,
		"stashes": [
			{"name": "vault", "size": 27},
			{"name": "ores", "size": 54}
		]
	}`)
	writeFile(t, root, playerA+"/vault_items.json", `["hytale:emerald"]`)
	// No ores_items.json: falls back to an empty item list.

	// Directory without an index: one skip.
	writeFile(t, root, playerB+"/leftover_items.json", `[]`)

	// Broken index: one error.
	writeFile(t, root, playerC+"/stashes.json", `{nope`)

	src, err := migration.NewDirSource(root)
	assert.NoError(t, err)
	facade := setupFacade(t)

	result := migration.NewStashRunner(src, facade, zap.NewNop()).Run(context.Background())
	assert.False(t, result.Failed())
	assert.Equal(t, 2, result.OK)
	assert.Equal(t, 1, result.Skip)
	assert.Equal(t, 1, result.Err)

	ctx := context.Background()
	limit := facade.GetMaxStashes(ctx, playerA)
	assert.True(t, limit.Present)
	assert.Equal(t, 5, limit.Max)

	vault, ok := facade.GetStash(ctx, playerA, "vault")
	assert.True(t, ok)
	assert.Equal(t, 27, vault.StashSize)
	assert.Equal(t, `["hytale:emerald"]`, vault.ItemsJSON)

	ores, ok := facade.GetStash(ctx, playerA, "ores")
	assert.True(t, ok)
	assert.Equal(t, 54, ores.StashSize)
	assert.Equal(t, "[]", ores.ItemsJSON)

	assert.Empty(t, facade.GetStashes(ctx, playerB))
}

func TestStashRunIsRepeatable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, playerA+"/stashes.json", `{"stashes": [{"name": "vault", "size": 27}]}`)

	src, err := migration.NewDirSource(root)
	assert.NoError(t, err)
	facade := setupFacade(t)
	runner := migration.NewStashRunner(src, facade, zap.NewNop())

	assert.Equal(t, 1, runner.Run(context.Background()).OK)
	assert.Equal(t, 1, runner.Run(context.Background()).OK)
	assert.Len(t, facade.GetStashes(context.Background(), playerA), 1)
}

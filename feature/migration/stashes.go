package migration

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// StashWriter is the slice of the sync facade the stash runner needs.
type StashWriter interface {
	SaveStash(ctx context.Context, playerUUID, name string, size int, itemsJSON string) bool
	SetMaxStashes(ctx context.Context, playerUUID string, max int) bool
}

// StashRunner imports per-player stash directories. Each "<uuid>/" directory
// holds a "stashes.json" index plus one "<name>_items.json" per stash.
type StashRunner struct {
	source Source
	writer StashWriter
	logger *zap.Logger
}

// NewStashRunner builds a runner over one source tree.
func NewStashRunner(source Source, writer StashWriter, logger *zap.Logger) *StashRunner {
	return &StashRunner{source: source, writer: writer, logger: logger}
}

// stashIndex mirrors the per-player stashes.json file.
type stashIndex struct {
	MaxStashes *int `json:"maxStashes"`
	Stashes    []struct {
		Name string `json:"name"`
		Size int    `json:"size"`
	} `json:"stashes"`
}

// Run scans the tree and upserts every stash it finds. Counts are per stash,
// not per player; a player directory without a stashes.json counts as one
// skip, and a missing items file falls back to an empty item list.
func (r *StashRunner) Run(ctx context.Context) Result {
	keys, err := r.source.List(ctx)
	if err != nil {
		return Result{Message: err.Error()}
	}

	var result Result
	for _, uuid := range collectStashDirs(keys) {
		data, err := r.source.Read(ctx, uuid+"/stashes.json")
		if err != nil {
			result.Skip++
			continue
		}

		var index stashIndex
		if err := json.Unmarshal(data, &index); err != nil {
			r.logger.Warn("malformed stash index", zap.String("player", uuid), zap.Error(err))
			result.Err++
			continue
		}

		if index.MaxStashes != nil {
			r.writer.SetMaxStashes(ctx, uuid, *index.MaxStashes)
		}
		for _, entry := range index.Stashes {
			itemsJSON := "[]"
			if items, err := r.source.Read(ctx, uuid+"/"+entry.Name+"_items.json"); err == nil {
				itemsJSON = string(items)
			}
			if r.writer.SaveStash(ctx, uuid, entry.Name, entry.Size, itemsJSON) {
				result.OK++
			} else {
				result.Err++
			}
		}
	}
	return result
}

// collectStashDirs returns the UUID-named directories in the tree, in
// stable order.
func collectStashDirs(keys []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, key := range keys {
		dir, _, found := strings.Cut(key, "/")
		if !found || !uuidName.MatchString(dir) {
			continue
		}
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

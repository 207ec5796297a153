package migration

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// InventoryWriter is the slice of the sync facade the player runner needs.
type InventoryWriter interface {
	SetInventory(ctx context.Context, playerUUID, displayName, inventoryJSON string, version int) bool
	SetHotbarManager(ctx context.Context, playerUUID, hotbarJSON string) bool
}

// PlayerRunner imports per-player archive files. The tree holds either
// "<uuid>.json" files at the root or "<uuid>/" directories whose first JSON
// file is the player archive.
type PlayerRunner struct {
	source Source
	writer InventoryWriter
	logger *zap.Logger
}

// NewPlayerRunner builds a runner over one source tree.
func NewPlayerRunner(source Source, writer InventoryWriter, logger *zap.Logger) *PlayerRunner {
	return &PlayerRunner{source: source, writer: writer, logger: logger}
}

// playerArchive mirrors the engine's on-disk player file. Only the component
// paths the store cares about are decoded; inventory and hotbar payloads stay
// raw so they land in the database byte-for-byte.
type playerArchive struct {
	Components struct {
		Player *struct {
			Inventory     json.RawMessage `json:"Inventory"`
			HotbarManager json.RawMessage `json:"HotbarManager"`
		} `json:"Player"`
		Nameplate *struct {
			Text string `json:"Text"`
		} `json:"Nameplate"`
		DisplayName *struct {
			DisplayName *struct {
				RawText string `json:"RawText"`
			} `json:"DisplayName"`
		} `json:"DisplayName"`
	} `json:"Components"`
}

func (a *playerArchive) displayName() string {
	c := &a.Components
	if c.Nameplate != nil && c.Nameplate.Text != "" {
		return c.Nameplate.Text
	}
	if c.DisplayName != nil && c.DisplayName.DisplayName != nil {
		return c.DisplayName.DisplayName.RawText
	}
	return ""
}

// Run scans the tree and upserts every player archive it can parse. Files
// without an inventory component are skipped; write failures and unreadable
// files count as errors but do not stop the run.
func (r *PlayerRunner) Run(ctx context.Context) Result {
	keys, err := r.source.List(ctx)
	if err != nil {
		return Result{Message: err.Error()}
	}

	var result Result
	for uuid, key := range collectPlayerFiles(keys) {
		data, err := r.source.Read(ctx, key)
		if err != nil {
			r.logger.Warn("unreadable player archive", zap.String("key", key), zap.Error(err))
			result.Err++
			continue
		}

		var archive playerArchive
		if err := json.Unmarshal(data, &archive); err != nil {
			r.logger.Warn("malformed player archive", zap.String("key", key), zap.Error(err))
			result.Err++
			continue
		}
		player := archive.Components.Player
		if player == nil || len(player.Inventory) == 0 {
			result.Skip++
			continue
		}

		// The engine started stamping inventories at version 4; older
		// files carry no Version field at all.
		version := 4
		var versioned struct {
			Version *int `json:"Version"`
		}
		if err := json.Unmarshal(player.Inventory, &versioned); err == nil && versioned.Version != nil {
			version = *versioned.Version
		}

		if !r.writer.SetInventory(ctx, uuid, archive.displayName(), string(player.Inventory), version) {
			result.Err++
			continue
		}
		if len(player.HotbarManager) > 0 {
			if !r.writer.SetHotbarManager(ctx, uuid, string(player.HotbarManager)) {
				r.logger.Warn("hotbar write failed", zap.String("player", uuid))
				result.Err++
				continue
			}
		}
		result.OK++
	}
	return result
}

// collectPlayerFiles maps player UUID to archive key. Root-level
// "<uuid>.json" wins over a "<uuid>/" directory; within a directory the
// first JSON file in key order is taken.
func collectPlayerFiles(keys []string) map[string]string {
	sort.Strings(keys)
	files := make(map[string]string)
	for _, key := range keys {
		if !strings.HasSuffix(strings.ToLower(key), ".json") {
			continue
		}
		if dir, rest, found := strings.Cut(key, "/"); found {
			if !uuidName.MatchString(dir) || strings.Contains(rest, "/") {
				continue
			}
			if _, taken := files[dir]; !taken {
				files[dir] = key
			}
			continue
		}
		base := strings.TrimSuffix(key, ".json")
		if uuidName.MatchString(base) {
			files[base] = key
		}
	}
	return files
}

// Package migration imports pre-database player archives into the shared
// store. The original deployment kept one JSON file per player under the
// server's universe directory and one directory per player for stashes; the
// runners here scan such a tree (on disk or mirrored into an object-storage
// bucket), extract the payloads and write them through the sync facade so
// the same upsert rules apply as for live traffic.
//
// Runs are resumable by design: every write is an upsert, so re-running a
// migration over the same tree converges instead of duplicating.
package migration

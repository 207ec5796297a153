// Package session enforces the one-active-server-per-player guarantee.
//
// Multiple game server processes share one database. Before a server treats
// a player as "its own" (loading inventory, accepting stash writes) it must
// claim the player's session here. Claims are conditional single-statement
// writes against the player_sessions table, so two servers racing for the
// same player resolve to exactly one winner, with no locks held in any
// process.
//
// A claim held by server A blocks server B until A releases it. Re-claims by
// the owner refresh the row's timestamp and always succeed; releases by
// anyone else are silent no-ops.
package session

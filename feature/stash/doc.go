// Package stash manages named per-player item containers ("stashes") with a
// per-process read-through/write-through cache.
//
// A player's collection is loaded in full on the first read and then served
// from memory until the host reports a disconnect, at which point it is
// unloaded. Single-stash reads that miss an already loaded collection still
// consult the store directly for that one name instead of reloading. Writes
// commit to the store before touching memory, so the cached collection can
// lag the store but never lead it.
//
// The cache is strictly per-process. Cross-server coherence is the job of
// the session coordinator: while one server holds a player's session no
// other server should be writing that player's stashes at all.
package stash

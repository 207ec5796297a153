// Package vote tracks vote-site callbacks as append-only tally rows.
//
// Totals are plain sums over a player's rows. Unlike sessions and stashes
// there is nothing to coordinate: concurrent appends from any number of
// servers are always correct.
package vote

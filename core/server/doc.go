// Package server holds the identity and HTTP configuration of this server
// process. The ServerID is what the session coordinator writes into
// player_sessions when claiming a player, so it must be unique per process.
package server

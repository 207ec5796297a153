// Package inventory synchronizes player identity, inventory and hotbar
// payloads with the shared database.
//
// Payloads are opaque JSON documents produced by the game's own serializer;
// this package stores and returns them verbatim and never interprets their
// shape. The one invariant it owns is write atomicity: an inventory write
// upserts the players row and the player_inventory row in a single
// transaction, so no reader ever observes one without the other.
package inventory

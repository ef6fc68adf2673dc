// Package store keeps the games in progress on each lane.
//
// A Store maps lane IDs to bowling games. bowling.Game is not safe for
// concurrent use, so every access goes through Update or View, which run the
// caller's function while holding the store's lock. Reads hand out Lane
// snapshots that share nothing with the stored game.
//
// Lanes untouched for longer than the TTL are dropped by Evict, which Run
// calls on a ticker until its context is cancelled.
package store

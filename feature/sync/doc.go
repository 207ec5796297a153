// Package sync exposes the single entry point the rest of a game server
// uses to reach the shared player database.
//
// The Facade wires the session coordinator, the inventory synchronizer, the
// stash service and the vote service over one gorm handle and flattens their
// error surface: callers see bool results and optional values, never store
// errors. Failures are logged and absorbed so that a flaky database degrades
// gameplay features instead of crashing them.
package sync

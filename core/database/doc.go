// Package database handles the shared database connection and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// configures the MySQL connection every sync service shares. The pool is
// deliberately small: each session claim, inventory write or stash operation
// holds a connection for a single round trip, so a handful of connections
// serves many concurrent handler threads.
//
// # Connect
//
// Connect establishes the connection and pings it before returning, so a
// server never starts claiming player sessions against a database it cannot
// reach. The sqlite driver is supported for tests and local tooling.
//
// # Schema Inspection
//
// The package includes tools to inspect the schema. VerifyTables reports
// which of the expected sync tables are missing, which the ping command uses
// to distinguish a reachable database from a migrated one.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.VerifyTables(db, database.SyncTables)
package database

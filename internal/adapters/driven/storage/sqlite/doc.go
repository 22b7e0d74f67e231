// Package sqlite provides a SQLite-based implementation of driven.RecordStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Records live in a single table, one JSON object per row:
//
//	records(position INTEGER PRIMARY KEY, body TEXT NOT NULL)
//
// # Durability
//
// The database runs with a rollback journal rather than WAL, so the database
// file alone is a complete copy and can be backed up with a plain file copy.
// WriteAll replaces every row inside one transaction.
package sqlite

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RecordStore: Record persistence (JSON file or SQLite)
//   - VectorIndex: Vector membership, removal and persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - BackupStore: Pre-write copies. Without it, backups cannot be requested.
//   - ConfigStore: Configured defaults. Without it, built-in defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or CLI package
package driven

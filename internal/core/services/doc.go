// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The reconcile pipeline is pure: filter, dedupe, cap and collision
// resolution operate on in-memory slices and never touch a store.
// Set algebra over vector ids goes through internal/idset.
package services

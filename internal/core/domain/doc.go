// Package domain defines the core business entities for vecsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A stored piece of knowledge linked to a vector
//   - VectorID: An exact unsigned 64-bit vector identifier
//   - VectorSnapshot: Vector index membership, enumerated or not
//   - Plan: A computed reconciliation, pure data until executed
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// VectorIndex is the vector store being reconciled.
// Vector contents are never read or modified, only membership.
type VectorIndex interface {
	// Enumerate captures the identifiers currently in the index.
	// Index formats that cannot list their members return an
	// UnenumerableSnapshot rather than an error.
	Enumerate(ctx context.Context) (domain.VectorSnapshot, error)

	// Remove deletes the given identifiers and returns how many were present.
	// Unknown identifiers are ignored.
	Remove(ctx context.Context, ids []domain.VectorID) (int, error)

	// Persist writes the index back to its path.
	Persist(ctx context.Context) error

	// Path returns the file backing the index.
	Path() string

	// Stats describes the loaded index.
	Stats() VectorStats

	// Close releases resources.
	Close() error
}

// VectorStats describes a loaded vector index.
type VectorStats struct {
	// Kind is the index layout, e.g. "idmap" or "plain".
	Kind string

	// Codec is the payload encoding, e.g. "none" or "zstd".
	Codec string

	// Dimension is the length of every vector.
	Dimension int

	// Count is the number of vectors.
	Count int

	// Enumerable is true when the index can list its identifiers.
	Enumerable bool
}

package driving

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// Reconciler restores a consistent pairing between the record store
// and the vector index.
type Reconciler interface {
	// Plan reads both stores and computes the reconciliation without writing.
	Plan(ctx context.Context, opts domain.Options) (*domain.Plan, error)

	// Apply commits a plan, or only reports it when opts.DryRun is set.
	Apply(ctx context.Context, plan *domain.Plan, opts domain.Options) (*ApplyResult, error)

	// Inspect describes the vector index.
	Inspect(ctx context.Context) (VectorIndexInfo, error)
}

// ApplyResult describes what Apply did.
type ApplyResult struct {
	// DryRun is true when nothing was written.
	DryRun bool

	// RecordBackup is the record store backup path, empty if none was taken.
	RecordBackup string

	// VectorBackup is the vector index backup path, empty if none was taken.
	VectorBackup string

	// RecordsWritten is true when the record store was rewritten.
	RecordsWritten bool

	// VectorsWritten is true when the vector index was persisted.
	VectorsWritten bool

	// Removed is the number of vectors the index actually removed.
	Removed int
}

// VectorIndexInfo describes a vector index for display.
type VectorIndexInfo struct {
	Path       string
	Kind       string
	Codec      string
	Dimension  int
	Count      int
	Enumerable bool
}

// IndexInspector describes a vector index without reading any records.
type IndexInspector interface {
	Inspect(ctx context.Context) (VectorIndexInfo, error)
}

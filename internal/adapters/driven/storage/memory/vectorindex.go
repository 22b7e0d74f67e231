package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// It tracks membership only; no vectors are stored.
type VectorIndex struct {
	mu         sync.RWMutex
	ids        map[domain.VectorID]struct{}
	enumerable bool
	persists   int
}

// NewVectorIndex creates an enumerable in-memory index holding ids.
func NewVectorIndex(ids ...domain.VectorID) *VectorIndex {
	idx := &VectorIndex{
		ids:        make(map[domain.VectorID]struct{}, len(ids)),
		enumerable: true,
	}
	for _, id := range ids {
		idx.ids[id] = struct{}{}
	}
	return idx
}

// NewOpaqueVectorIndex creates an index holding ids that refuses to list them.
func NewOpaqueVectorIndex(ids ...domain.VectorID) *VectorIndex {
	idx := NewVectorIndex(ids...)
	idx.enumerable = false
	return idx
}

// Enumerate returns the current ids, or an unenumerable snapshot.
func (idx *VectorIndex) Enumerate(_ context.Context) (domain.VectorSnapshot, error) {
	if !idx.enumerable {
		return domain.Unenumerable("in-memory index configured without id listing"), nil
	}
	return domain.Enumerated(idx.IDs()), nil
}

// Remove deletes ids and returns how many were present.
func (idx *VectorIndex) Remove(_ context.Context, ids []domain.VectorID) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if _, ok := idx.ids[id]; ok {
			delete(idx.ids, id)
			removed++
		}
	}
	return removed, nil
}

// Persist counts the call; there is nothing to write.
func (idx *VectorIndex) Persist(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.persists++
	return nil
}

// Persists returns how many times Persist was called.
func (idx *VectorIndex) Persists() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.persists
}

// IDs returns the current ids in ascending order, regardless of enumerability.
func (idx *VectorIndex) IDs() []domain.VectorID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]domain.VectorID, 0, len(idx.ids))
	for id := range idx.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Path returns the pseudo path of the index.
func (idx *VectorIndex) Path() string {
	return ":memory:vectors"
}

// Stats describes the index.
func (idx *VectorIndex) Stats() driven.VectorStats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return driven.VectorStats{
		Kind:       "memory",
		Codec:      "none",
		Count:      len(idx.ids),
		Enumerable: idx.enumerable,
	}
}

// Close is a no-op.
func (idx *VectorIndex) Close() error {
	return nil
}

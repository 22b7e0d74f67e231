// Package idset provides set algebra over vector identifiers.
// It wraps the 64-bit Roaring Bitmap so the full uint64 id range is kept exact.
package idset

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// Set is a set of vector identifiers.
type Set struct {
	rb *roaring64.Bitmap
}

// New creates an empty set.
func New() *Set {
	return &Set{rb: roaring64.New()}
}

// Of creates a set holding ids.
func Of(ids ...domain.VectorID) *Set {
	s := New()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an id.
func (s *Set) Add(id domain.VectorID) {
	s.rb.Add(uint64(id))
}

// Remove deletes an id.
func (s *Set) Remove(id domain.VectorID) {
	s.rb.Remove(uint64(id))
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id domain.VectorID) bool {
	return s.rb.Contains(uint64(id))
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Minus returns the ids of s that are not in other. Neither input changes.
func (s *Set) Minus(other *Set) *Set {
	return &Set{rb: roaring64.AndNot(s.rb, other.rb)}
}

// Union returns the ids in either set. Neither input changes.
func (s *Set) Union(other *Set) *Set {
	return &Set{rb: roaring64.Or(s.rb, other.rb)}
}

// Equal reports whether both sets hold the same ids.
func (s *Set) Equal(other *Set) bool {
	return s.rb.Equals(other.rb)
}

// Sorted returns the ids in ascending order.
func (s *Set) Sorted() []domain.VectorID {
	raw := s.rb.ToArray()
	ids := make([]domain.VectorID, len(raw))
	for i, v := range raw {
		ids[i] = domain.VectorID(v)
	}
	return ids
}

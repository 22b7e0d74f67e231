package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
	writes  int
}

// NewRecordStore creates a new in-memory record store holding records.
func NewRecordStore(records ...domain.Record) *RecordStore {
	return &RecordStore{
		records: append([]domain.Record(nil), records...),
	}
}

// ReadAll returns a copy of the stored records with positions renumbered.
func (s *RecordStore) ReadAll(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Record, len(s.records))
	for i, r := range s.records {
		out[i] = domain.NewRecord(i, r.Fields)
	}
	return out, nil
}

// WriteAll replaces the stored records.
func (s *RecordStore) WriteAll(_ context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.Record(nil), records...)
	s.writes++
	return nil
}

// Writes returns how many times WriteAll was called.
func (s *RecordStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Path returns the pseudo path of the store.
func (s *RecordStore) Path() string {
	return ":memory:records"
}

// Close is a no-op.
func (s *RecordStore) Close() error {
	return nil
}

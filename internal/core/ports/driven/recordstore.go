package driven

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// RecordStore is the structured metadata store being reconciled.
// It is treated as a flat ordered collection of records.
type RecordStore interface {
	// ReadAll loads every record in stored order.
	ReadAll(ctx context.Context) ([]domain.Record, error)

	// WriteAll replaces the store contents with records, in order.
	// Each record's fields are written exactly as they were read.
	WriteAll(ctx context.Context, records []domain.Record) error

	// Path returns the file backing the store.
	Path() string

	// Close releases resources.
	Close() error
}

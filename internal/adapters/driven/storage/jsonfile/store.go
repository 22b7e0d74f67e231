// Package jsonfile provides a record store backed by a single JSON array file.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/records"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/fsutil"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store reads and writes a JSON array of record objects.
type Store struct {
	path string
}

// New creates a store for the JSON file at path. The file is not read until ReadAll.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: path cannot be empty")
	}
	return &Store{path: path}, nil
}

// ReadAll loads every record in file order.
func (s *Store) ReadAll(_ context.Context) ([]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	recs, err := records.DecodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return recs, nil
}

// WriteAll replaces the file with records, atomically.
func (s *Store) WriteAll(_ context.Context, recs []domain.Record) error {
	data, err := records.EncodeArray(recs)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, data, 0600)
}

// Path returns the JSON file path.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; the file is not held open.
func (s *Store) Close() error {
	return nil
}

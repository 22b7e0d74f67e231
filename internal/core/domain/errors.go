package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent reconciliation failures.
// These are distinct from infrastructure errors, which adapters wrap with them.
var (
	// ErrNotFound indicates a requested file or entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown store format or index kind.
	ErrUnsupportedType = errors.New("unsupported type")

	// Reconciliation Errors.

	// ErrInvalidIdentifier indicates a vector id is missing, zero or not an
	// unsigned 64-bit integer. The record is dropped; the run continues.
	ErrInvalidIdentifier = errors.New("invalid vector identifier")

	// ErrStoreReadFailure indicates a store could not be loaded.
	// The run aborts before any computation.
	ErrStoreReadFailure = errors.New("store read failed")

	// ErrBackupFailure indicates a requested backup could not be created.
	// The run aborts before any store is mutated.
	ErrBackupFailure = errors.New("backup failed")

	// ErrStoreWriteFailure indicates a terminal write failed after backups.
	// See WriteError for which stores were updated.
	ErrStoreWriteFailure = errors.New("store write failed")

	// ErrDegradedEnumeration indicates the vector index cannot list its ids.
	// It is reported, never returned as a run failure.
	ErrDegradedEnumeration = errors.New("vector ids not enumerable")
)

// Store names used in write failure reports.
const (
	StoreRecords = "records"
	StoreVectors = "vectors"
)

// WriteError reports a terminal write failure together with the state
// each store was left in.
type WriteError struct {
	// Store is the store whose write failed.
	Store string

	// Path is the file that failed to update.
	Path string

	// RecordsWritten is true when the record store already holds the new contents.
	RecordsWritten bool

	// VectorsWritten is true when the vector index already holds the new contents.
	VectorsWritten bool

	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s store %s: %v (records updated: %t, vectors updated: %t)",
		ErrStoreWriteFailure, e.Store, e.Path, e.Err, e.RecordsWritten, e.VectorsWritten)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrStoreWriteFailure, e.Err}
}

// Partial reports whether one store was updated and the other was not.
func (e *WriteError) Partial() bool {
	return e.RecordsWritten != e.VectorsWritten
}

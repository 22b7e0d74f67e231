package cli

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
)

// operatorError turns a run failure into a message telling the operator
// what state the stores are in and what to do next.
func operatorError(err error, result *driving.ApplyResult) error {
	var we *domain.WriteError
	switch {
	case errors.As(err, &we) && we.Partial():
		msg := fmt.Sprintf("partial write: the record store was updated but the vector index %s was not: %v", we.Path, we.Err)
		if result != nil && result.VectorBackup != "" {
			msg += fmt.Sprintf("\nrestore both stores from %s and %s before retrying", result.RecordBackup, result.VectorBackup)
		} else {
			msg += "\nno backups were taken; rerun reconcile to finish removing vectors"
		}
		return errors.New(msg)
	case errors.As(err, &we):
		return fmt.Errorf("write failed: the %s store %s was not changed: %w", we.Store, we.Path, we.Err)
	case errors.Is(err, domain.ErrBackupFailure):
		return fmt.Errorf("backup failed, no store was modified (use --no-backup to skip backups): %w", err)
	case errors.Is(err, domain.ErrStoreReadFailure):
		return fmt.Errorf("could not read the stores, nothing was changed: %w", err)
	case errors.Is(err, domain.ErrInvalidInput):
		return fmt.Errorf("invalid input: %w", err)
	default:
		return err
	}
}

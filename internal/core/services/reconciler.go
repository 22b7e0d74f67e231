package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// Ensure ReconcileService implements the interface.
var _ driving.Reconciler = (*ReconcileService)(nil)

// ReconcileService reads both stores, computes a plan and commits it.
type ReconcileService struct {
	records driven.RecordStore
	vectors driven.VectorIndex
	backups driven.BackupStore
}

// NewReconcileService creates a new reconcile service.
// The backup store is optional; without it Apply refuses runs that request backups.
func NewReconcileService(
	records driven.RecordStore,
	vectors driven.VectorIndex,
	backups driven.BackupStore,
) *ReconcileService {
	return &ReconcileService{
		records: records,
		vectors: vectors,
		backups: backups,
	}
}

// Plan reads both stores once and computes the reconciliation.
func (s *ReconcileService) Plan(ctx context.Context, opts domain.Options) (*domain.Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	records, err := s.records.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: record store %s: %w", domain.ErrStoreReadFailure, s.records.Path(), err)
	}

	snapshot, err := s.vectors.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: vector index %s: %w", domain.ErrStoreReadFailure, s.vectors.Path(), err)
	}

	plan := BuildPlan(records, snapshot, opts)
	logger.SetRunID(plan.RunID)
	logger.Info("Planned: %d of %d records kept", len(plan.Kept), plan.Counts.Before)
	return plan, nil
}

// Apply commits the plan: backups first, then the record store, then the
// vector index. With opts.DryRun nothing is touched.
func (s *ReconcileService) Apply(
	ctx context.Context,
	plan *domain.Plan,
	opts domain.Options,
) (*driving.ApplyResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: nil plan", domain.ErrInvalidInput)
	}

	result := &driving.ApplyResult{DryRun: opts.DryRun}
	if opts.DryRun {
		logger.Info("Dry run, no changes written")
		return result, nil
	}

	if opts.Backup {
		if err := s.backup(result); err != nil {
			return result, err
		}
	}

	if err := s.records.WriteAll(ctx, plan.Kept); err != nil {
		return result, &domain.WriteError{
			Store: domain.StoreRecords,
			Path:  s.records.Path(),
			Err:   err,
		}
	}
	result.RecordsWritten = true
	logger.Info("Wrote %d records to %s", len(plan.Kept), s.records.Path())

	removals := plan.Removals()
	if len(removals) > 0 {
		removed, err := s.vectors.Remove(ctx, removals)
		if err != nil {
			logger.Error("Records were written but the vector index was not updated")
			return result, &domain.WriteError{
				Store:          domain.StoreVectors,
				Path:           s.vectors.Path(),
				RecordsWritten: true,
				Err:            fmt.Errorf("remove ids: %w", err),
			}
		}
		result.Removed = removed
	}

	if err := s.vectors.Persist(ctx); err != nil {
		logger.Error("Records were written but the vector index was not updated")
		return result, &domain.WriteError{
			Store:          domain.StoreVectors,
			Path:           s.vectors.Path(),
			RecordsWritten: true,
			Err:            fmt.Errorf("persist: %w", err),
		}
	}
	result.VectorsWritten = true
	logger.Info("Removed %d vectors, wrote %s", result.Removed, s.vectors.Path())

	return result, nil
}

// Run plans and applies in one call.
func (s *ReconcileService) Run(ctx context.Context, opts domain.Options) (*domain.Plan, *driving.ApplyResult, error) {
	plan, err := s.Plan(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.Apply(ctx, plan, opts)
	return plan, result, err
}

// Inspect describes the vector index.
func (s *ReconcileService) Inspect(_ context.Context) (driving.VectorIndexInfo, error) {
	st := s.vectors.Stats()
	return driving.VectorIndexInfo{
		Path:       s.vectors.Path(),
		Kind:       st.Kind,
		Codec:      st.Codec,
		Dimension:  st.Dimension,
		Count:      st.Count,
		Enumerable: st.Enumerable,
	}, nil
}

// backup copies both store files. Either failure aborts before any write.
func (s *ReconcileService) backup(result *driving.ApplyResult) error {
	if s.backups == nil {
		return fmt.Errorf("%w: no backup store configured", domain.ErrBackupFailure)
	}

	path, err := s.backups.Backup(s.records.Path())
	if err != nil {
		return fmt.Errorf("%w: record store %s: %w", domain.ErrBackupFailure, s.records.Path(), err)
	}
	result.RecordBackup = path
	logger.Info("Backed up records -> %s", path)

	path, err = s.backups.Backup(s.vectors.Path())
	if err != nil {
		return fmt.Errorf("%w: vector index %s: %w", domain.ErrBackupFailure, s.vectors.Path(), err)
	}
	result.VectorBackup = path
	logger.Info("Backed up index -> %s", path)

	return nil
}

// IsPartial reports whether err left one store updated and the other not.
func IsPartial(err error) bool {
	var we *domain.WriteError
	return errors.As(err, &we) && we.Partial()
}

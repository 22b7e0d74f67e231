package services

import (
	"github.com/google/uuid"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/idset"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// BuildPlan runs the whole pipeline over in-memory snapshots:
// filter, dedupe, subject cap, id collisions, then set reconciliation.
// It has no side effects beyond logging.
func BuildPlan(records []domain.Record, snapshot domain.VectorSnapshot, opts domain.Options) *domain.Plan {
	logger.Section("Reconcile")

	filtered := Filter(records, snapshot, opts.MinConfidence, opts.DropPhrases)
	deduped := Dedupe(filtered.Survivors)
	logger.Debug("Dedupe: %d -> %d", len(filtered.Survivors), len(deduped))

	capped := CapSubjects(deduped, opts.SubjectCap)
	if opts.CapEnabled() {
		logger.Debug("Subject cap %d: %d -> %d", opts.SubjectCap, len(deduped), len(capped))
	}

	kept, collisions := ResolveCollisions(capped)
	if collisions > 0 {
		logger.Warn("%d records dropped for sharing a vector id with a better record", collisions)
	}

	plan := Reconcile(records, kept, snapshot)
	plan.DroppedMissingVector = filtered.MissingVector
	if opts.CapEnabled() {
		plan.SubjectCap = opts.SubjectCap
	}
	plan.Counts = domain.StageCounts{
		Before:          len(records),
		BelowConfidence: filtered.BelowConfidence,
		ExactPhrase:     filtered.ExactPhrase,
		InvalidID:       filtered.InvalidID,
		MissingVector:   len(filtered.MissingVector),
		AfterFilter:     len(filtered.Survivors),
		AfterDedupe:     len(deduped),
		AfterCap:        len(capped),
		IDCollisions:    collisions,
		AfterCollisions: len(kept),
	}
	return plan
}

// Reconcile computes the id sets that bring the vector index in line with kept.
//
// Orphans are index ids with no kept record; they can only be known when the
// snapshot is enumerated. Filtered ids are the valid ids of input records
// that were not kept; they are removed from the index in either mode.
func Reconcile(input, kept []domain.Record, snapshot domain.VectorSnapshot) *domain.Plan {
	keep := idset.New()
	for _, r := range kept {
		if r.HasValidID() {
			keep.Add(r.VectorID)
		}
	}

	valid := idset.New()
	for _, r := range input {
		if r.HasValidID() {
			valid.Add(r.VectorID)
		}
	}

	plan := &domain.Plan{
		RunID:           uuid.NewString(),
		Kept:            kept,
		FilteredVectors: valid.Minus(keep).Sorted(),
	}

	switch s := snapshot.(type) {
	case domain.EnumeratedSnapshot:
		present := idset.Of(s.IDs...)
		plan.VectorCount = present.Len()
		orphans := present.Minus(keep)
		plan.OrphanVectors = orphans.Sorted()

		// Filter guarantees kept ids exist; direct callers may pass other sets.
		removal := orphans.Union(valid.Minus(keep))
		if !present.Minus(removal).Equal(keep) {
			logger.Warn("%d kept vector ids are not in the index", keep.Minus(present).Len())
		}
	case domain.UnenumerableSnapshot:
		plan.Degraded = true
		plan.DegradedReason = s.Reason
		plan.VectorCount = -1
	default:
		plan.Degraded = true
		plan.DegradedReason = domain.ErrDegradedEnumeration.Error()
		plan.VectorCount = -1
	}

	logger.Debug("Reconcile: %d kept ids, %d filtered ids, %d orphan vectors (degraded: %t)",
		keep.Len(), len(plan.FilteredVectors), len(plan.OrphanVectors), plan.Degraded)
	return plan
}

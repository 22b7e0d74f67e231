package services

import (
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/idset"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// FilterResult is the output of Filter.
type FilterResult struct {
	// Survivors passed every stage, in input order.
	Survivors []domain.Record

	// MissingVector holds records dropped because their id is not in the index.
	MissingVector []domain.Record

	BelowConfidence int
	ExactPhrase     int
	InvalidID       int
}

// Filter drops records by confidence, exact phrase, id validity and,
// when the index can list its ids, id existence. Stages run in that order
// and each drop is counted once, at the first stage that rejects it.
func Filter(
	records []domain.Record,
	snapshot domain.VectorSnapshot,
	minConfidence float64,
	dropPhrases []string,
) FilterResult {
	drop := make(map[string]struct{}, len(dropPhrases))
	for _, p := range dropPhrases {
		drop[domain.NormalizeText(p)] = struct{}{}
	}

	var present *idset.Set
	switch s := snapshot.(type) {
	case domain.EnumeratedSnapshot:
		present = idset.Of(s.IDs...)
	case domain.UnenumerableSnapshot:
		logger.Warn("Skipping existence filter: %s", s.Reason)
	}

	res := FilterResult{Survivors: make([]domain.Record, 0, len(records))}
	for _, r := range records {
		if r.Confidence < minConfidence {
			res.BelowConfidence++
			continue
		}
		if _, ok := drop[r.NormalizedKey()]; ok {
			res.ExactPhrase++
			continue
		}
		if !r.HasValidID() {
			logger.Debug("Record %d dropped: %v", r.Position, r.IDError())
			res.InvalidID++
			continue
		}
		if present != nil && !present.Contains(r.VectorID) {
			res.MissingVector = append(res.MissingVector, r)
			continue
		}
		res.Survivors = append(res.Survivors, r)
	}

	if present != nil && present.IsEmpty() && len(res.MissingVector) > 0 {
		logger.Warn("Vector index is empty: all %d records with a valid vector_id are dropped as missing", len(res.MissingVector))
	}

	logger.Debug("Filter: %d below confidence, %d exact phrase, %d invalid id, %d missing vector, %d kept",
		res.BelowConfidence, res.ExactPhrase, res.InvalidID, len(res.MissingVector), len(res.Survivors))
	return res
}

package services

import (
	"strconv"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// Dedupe keeps one record per normalised text.
//
// The survivor of each group is the best record by ranksAbove. Output keeps
// the position of each group's first occurrence in the input. Records with
// empty text are never merged: each is keyed by its vector id instead.
func Dedupe(records []domain.Record) []domain.Record {
	order := make([]string, 0, len(records))
	best := make(map[string]domain.Record, len(records))

	for _, r := range records {
		key := dedupeKey(r)
		cur, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = r
			continue
		}
		if ranksAbove(r, cur) {
			best[key] = r
		}
	}

	out := make([]domain.Record, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func dedupeKey(r domain.Record) string {
	key := r.NormalizedKey()
	if key != "" {
		return key
	}
	// Empty text carries no duplicate signal.
	if r.HasValidID() {
		return "\x00id:" + r.VectorID.String()
	}
	return "\x00pos:" + strconv.Itoa(r.Position)
}

package services

import (
	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// ResolveCollisions keeps one record per vector id.
//
// Distinct texts can point at the same vector. The best record by ranksAbove
// keeps the id and the rest are dropped, so kept records and vectors pair
// one to one. Output preserves input order. The second result is the number
// of records dropped.
func ResolveCollisions(records []domain.Record) ([]domain.Record, int) {
	best := make(map[domain.VectorID]int, len(records))
	for i, r := range records {
		if !r.HasValidID() {
			continue
		}
		cur, ok := best[r.VectorID]
		if !ok || ranksAbove(r, records[cur]) {
			best[r.VectorID] = i
		}
	}

	out := make([]domain.Record, 0, len(records))
	for i, r := range records {
		if r.HasValidID() && best[r.VectorID] != i {
			continue
		}
		out = append(out, r)
	}
	return out, len(records) - len(out)
}

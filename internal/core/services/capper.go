package services

import (
	"slices"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// CapSubjects keeps at most limit records per subject.
//
// Subjects are compared after normalisation and an empty subject is a group
// of its own. Within a group the best records by ranksAbove survive. The
// output preserves input order. A limit of zero or less returns records as is.
func CapSubjects(records []domain.Record, limit int) []domain.Record {
	if limit <= 0 {
		return records
	}

	groups := make(map[string][]int)
	for i, r := range records {
		key := domain.NormalizeText(r.Subject)
		groups[key] = append(groups[key], i)
	}

	keep := make([]bool, len(records))
	for _, idx := range groups {
		slices.SortStableFunc(idx, func(a, b int) int {
			return compareRank(records[a], records[b])
		})
		for _, i := range idx[:min(limit, len(idx))] {
			keep[i] = true
		}
	}

	out := make([]domain.Record, 0, len(records))
	for i, r := range records {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

package services

import (
	"unicode/utf8"

	"github.com/custodia-labs/vecsync/internal/core/domain"
)

// ranksAbove reports whether a is preferred over b when only one may survive.
//
// Compared top to bottom, first difference wins: decided, newer timestamp,
// higher confidence, longer raw text. Records equal on all four fall back to
// input order, so the earlier record wins.
func ranksAbove(a, b domain.Record) bool {
	if a.Decided != b.Decided {
		return a.Decided
	}
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if la, lb := utf8.RuneCountInString(a.Text), utf8.RuneCountInString(b.Text); la != lb {
		return la > lb
	}
	return a.Position < b.Position
}

// compareRank orders records best first, for use with slices.SortFunc.
func compareRank(a, b domain.Record) int {
	switch {
	case ranksAbove(a, b):
		return -1
	case ranksAbove(b, a):
		return 1
	default:
		return 0
	}
}

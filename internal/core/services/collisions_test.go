package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCollisions(t *testing.T) {
	records := build(
		rec{ID: id(1), Text: "first", Timestamp: 1},
		rec{ID: id(2), Text: "other"},
		rec{ID: id(1), Text: "second", Timestamp: 5},
		rec{ID: id(1), Text: "third", Timestamp: 3},
	)

	out, dropped := ResolveCollisions(records)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"other", "second"}, texts(out))
}

func TestResolveCollisions_NoCollisions(t *testing.T) {
	records := build(rec{ID: id(1), Text: "a"}, rec{ID: id(2), Text: "b"})

	out, dropped := ResolveCollisions(records)

	assert.Zero(t, dropped)
	assert.Equal(t, records, out)
}

func TestResolveCollisions_TieKeepsEarliest(t *testing.T) {
	records := build(rec{ID: id(9), Text: "aa"}, rec{ID: id(9), Text: "bb"})

	out, dropped := ResolveCollisions(records)

	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"aa"}, texts(out))
}

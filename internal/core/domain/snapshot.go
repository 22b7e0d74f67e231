package domain

// VectorSnapshot is the membership of the vector index captured at read time.
//
// It is either an EnumeratedSnapshot, holding every live identifier, or an
// UnenumerableSnapshot for index formats that cannot list their members.
// Consumers switch on the concrete type and must handle both.
type VectorSnapshot interface {
	snapshot()
}

// EnumeratedSnapshot lists every identifier present in the index.
type EnumeratedSnapshot struct {
	IDs []VectorID
}

// UnenumerableSnapshot marks an index whose identifiers cannot be listed.
type UnenumerableSnapshot struct {
	// Reason explains why enumeration is unavailable.
	Reason string
}

func (EnumeratedSnapshot) snapshot()   {}
func (UnenumerableSnapshot) snapshot() {}

// Enumerated returns a snapshot holding ids.
func Enumerated(ids []VectorID) VectorSnapshot {
	return EnumeratedSnapshot{IDs: ids}
}

// Unenumerable returns a snapshot for an index that cannot list its ids.
func Unenumerable(reason string) VectorSnapshot {
	return UnenumerableSnapshot{Reason: reason}
}

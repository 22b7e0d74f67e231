package domain

// StageCounts tallies records at each pipeline stage for reporting.
//
// Before equals BelowConfidence + ExactPhrase + InvalidID + MissingVector + AfterFilter.
type StageCounts struct {
	Before          int
	BelowConfidence int
	ExactPhrase     int
	InvalidID       int
	MissingVector   int
	AfterFilter     int
	AfterDedupe     int
	AfterCap        int
	IDCollisions    int
	AfterCollisions int
}

// Plan is the computed reconciliation. It is pure data until executed.
type Plan struct {
	// RunID correlates log lines of one run.
	RunID string

	// Kept is the new record store contents, in input order.
	Kept []Record

	// DroppedMissingVector holds records whose valid id is absent from the index.
	DroppedMissingVector []Record

	// OrphanVectors are index ids with no kept record, ascending.
	// Nil when the index cannot enumerate its ids.
	OrphanVectors []VectorID

	// FilteredVectors are valid ids of input records that were not kept, ascending.
	FilteredVectors []VectorID

	// Degraded is true when the index could not enumerate its ids.
	Degraded bool

	// DegradedReason explains the degraded mode.
	DegradedReason string

	// VectorCount is the number of ids in the index, -1 when unknown.
	VectorCount int

	// SubjectCap is the cap that was applied, 0 when disabled.
	SubjectCap int

	Counts StageCounts
}

// KeptIDs returns the vector ids of the kept records in order.
func (p *Plan) KeptIDs() []VectorID {
	ids := make([]VectorID, 0, len(p.Kept))
	for _, r := range p.Kept {
		ids = append(ids, r.VectorID)
	}
	return ids
}

// Removals returns every id the executor removes from the index, ascending
// and without duplicates.
func (p *Plan) Removals() []VectorID {
	out := make([]VectorID, 0, len(p.OrphanVectors)+len(p.FilteredVectors))
	i, j := 0, 0
	for i < len(p.OrphanVectors) || j < len(p.FilteredVectors) {
		switch {
		case j >= len(p.FilteredVectors):
			out = append(out, p.OrphanVectors[i])
			i++
		case i >= len(p.OrphanVectors):
			out = append(out, p.FilteredVectors[j])
			j++
		case p.OrphanVectors[i] < p.FilteredVectors[j]:
			out = append(out, p.OrphanVectors[i])
			i++
		case p.OrphanVectors[i] > p.FilteredVectors[j]:
			out = append(out, p.FilteredVectors[j])
			j++
		default:
			out = append(out, p.OrphanVectors[i])
			i++
			j++
		}
	}
	return out
}

// HasChanges reports whether applying the plan would alter either store.
func (p *Plan) HasChanges() bool {
	return len(p.Kept) != p.Counts.Before || len(p.OrphanVectors) > 0 || len(p.FilteredVectors) > 0
}

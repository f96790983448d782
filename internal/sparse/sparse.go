// Package sparse implements a sparse set of uint32 values. matcher.PikeVM
// uses one per input position to track which program states have
// already been queued this generation, so a state reachable by more than
// one epsilon path is only ever explored once — the dedup step that
// keeps thread-list simulation from re-walking a quantifier's body an
// unbounded number of times.
package sparse

// SparseSet holds a set of uint32 values below some fixed capacity. It
// gives O(1) Insert/Contains, and an O(1) Clear that doesn't need to
// zero the backing arrays.
type SparseSet struct {
	sparse []uint32 // value -> index into dense, meaningful only for live values
	dense  []uint32 // the live values, in insertion order
	size   uint32
}

// NewSparseSet returns a set that can hold values in [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set; a no-op if value is already present.
func (s *SparseSet) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.sparse[value] = s.size
	s.dense = append(s.dense, value)
	s.size++
}

// Contains reports whether value is currently in the set.
func (s *SparseSet) Contains(value uint32) bool {
	if value >= uint32(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear empties the set. Stale entries left behind in sparse are
// harmless: Contains only trusts sparse[value] when it falls within the
// live prefix of dense ([0, size)), which Clear shrinks to zero.
func (s *SparseSet) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

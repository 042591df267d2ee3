// Package sparse provides a sparse set data structure for efficient
// membership testing over small, dense integer universes.
//
// It backs the DFA matcher's active-state tracking: the universe is the
// (small) set of compiled DFA state indices, while the "active" subset
// changes every event. A sparse set keeps both operations O(1) without the
// allocation churn of reallocating a map every step.
package sparse

// Set is a set of uint32 values, 0..capacity-1, supporting O(1) insert,
// membership test, and clear. It maintains both a sparse array (value ->
// index in dense) and a dense array (iteration order), the classic
// Briggs/Torczon sparse-set representation.
type Set struct {
	sparse []uint32
	dense  []uint32
	size   uint32
}

// New creates a new Set over the universe [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. No-op if already present.
// Panics if value is outside the configured capacity.
func (s *Set) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.dense = append(s.dense, value)
	s.sparse[value] = s.size
	s.size++
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Len returns the number of elements currently in the set.
func (s *Set) Len() int {
	return int(s.size)
}

// Values returns the elements currently in the set, in insertion order.
// The returned slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense[:s.size]
}

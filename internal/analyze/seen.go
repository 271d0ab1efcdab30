package analyze

import "github.com/rhartert/jamsat/internal/literal"

// Seen is a set of variables that supports O(1) clearing, reused across
// calls to Analyze to avoid re-allocating a fresh map or slice each time.
//
// Grounded on yass/internal/sat/set.go's ResetSet.
type Seen struct {
	addedAt   []uint32
	timestamp uint32
}

// Grow adds a slot for a newly created variable.
func (s *Seen) Grow() {
	s.addedAt = append(s.addedAt, 0)
}

// Clear empties the set in O(1), except for a rare timestamp wraparound.
func (s *Seen) Clear() {
	s.timestamp++
	if s.timestamp == 0 {
		s.timestamp = 1
		for i := range s.addedAt {
			s.addedAt[i] = 0
		}
	}
}

// Contains reports whether v is in the set.
func (s *Seen) Contains(v literal.Var) bool {
	return s.addedAt[v] == s.timestamp
}

// Add inserts v into the set.
func (s *Seen) Add(v literal.Var) {
	s.addedAt[v] = s.timestamp
}

package models

import "slices"

// IDSet is an unordered set of entity identifiers.
type IDSet map[int64]struct{}

// NewIDSet builds a set holding the provided ids.
func NewIDSet(ids ...int64) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add inserts id into the set.
func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Remove deletes id from the set. Removing from a nil set is a no-op.
func (s IDSet) Remove(id int64) {
	delete(s, id)
}

// Has reports whether id is a member.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Intersect returns the members present in both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	out := NewIDSet()
	for id := range s {
		if other.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Clone copies the set. The copy of a nil set is an empty set.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

package palette

import "sort"

// GUIDSet is a set of palette GUIDs. A nil GUIDSet is an empty set for
// reads.
type GUIDSet map[int]struct{}

// NewGUIDSet builds a set from guids.
func NewGUIDSet(guids ...int) GUIDSet {
	s := make(GUIDSet, len(guids))
	for _, g := range guids {
		s[g] = struct{}{}
	}
	return s
}

// Union merges sets into a new set. Inputs are not modified.
func Union(sets ...GUIDSet) GUIDSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(GUIDSet, n)
	for _, s := range sets {
		for g := range s {
			out[g] = struct{}{}
		}
	}
	return out
}

func (s GUIDSet) Has(guid int) bool {
	_, ok := s[guid]
	return ok
}

func (s GUIDSet) Add(guid int) {
	s[guid] = struct{}{}
}

func (s GUIDSet) Remove(guid int) {
	delete(s, guid)
}

// Toggle flips membership and reports whether guid is now present.
func (s GUIDSet) Toggle(guid int) bool {
	if s.Has(guid) {
		delete(s, guid)
		return false
	}
	s[guid] = struct{}{}
	return true
}

func (s GUIDSet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s GUIDSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy.
func (s GUIDSet) Clone() GUIDSet {
	return Union(s)
}

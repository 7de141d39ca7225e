package view

import "sort"

// TagSet is the set of selected tag names. Names match exactly.
type TagSet map[string]struct{}

// NewTagSet builds a set from names.
func NewTagSet(names ...string) TagSet {
	s := make(TagSet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports membership; safe on a nil set.
func (s TagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Toggle flips membership and reports whether name is now selected.
func (s TagSet) Toggle(name string) bool {
	if s.Has(name) {
		delete(s, name)
		return false
	}
	s[name] = struct{}{}
	return true
}

// Only clears the set and selects just name.
func (s TagSet) Only(name string) {
	for k := range s {
		delete(s, k)
	}
	s[name] = struct{}{}
}

// Clone returns a copy.
func (s TagSet) Clone() TagSet {
	c := make(TagSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Sorted returns the names in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

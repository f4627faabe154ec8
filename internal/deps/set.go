package deps

import "sort"

// Set is a set of generic parameter names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	s.Add(names...)
	return s
}

// Add inserts names into the set.
func (s Set) Add(names ...string) {
	for _, name := range names {
		s[name] = struct{}{}
	}
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set with the members of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for name := range s {
		out[name] = struct{}{}
	}
	for name := range other {
		out[name] = struct{}{}
	}
	return out
}

// Minus returns a new set with the members of s that are not in other.
func (s Set) Minus(other Set) Set {
	out := make(Set, len(s))
	for name := range s {
		if !other.Has(name) {
			out[name] = struct{}{}
		}
	}
	return out
}

// SubsetOf reports whether every member of s is in other.
func (s Set) SubsetOf(other Set) bool {
	for name := range s {
		if !other.Has(name) {
			return false
		}
	}
	return true
}

// Ordered returns the members of s in the order they appear in order.
// Members missing from order follow in lexical order.
func (s Set) Ordered(order []string) []string {
	out := make([]string, 0, len(s))
	seen := make(Set, len(s))
	for _, name := range order {
		if s.Has(name) && !seen.Has(name) {
			out = append(out, name)
			seen.Add(name)
		}
	}
	var rest []string
	for name := range s {
		if !seen.Has(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Sorted returns the members of s in lexical order.
func (s Set) Sorted() []string {
	return s.Ordered(nil)
}

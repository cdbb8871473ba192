package visited

import "sort"

// Set records URLs that have already been processed.
// It only grows; there is no removal.
type Set struct {
	items map[string]struct{}
	order []string
}

// New creates an empty Set.
func New() *Set {
	return &Set{
		items: make(map[string]struct{}),
	}
}

// Add marks key as visited and reports whether it was new.
func (s *Set) Add(key string) bool {
	if _, ok := s.items[key]; ok {
		return false
	}

	s.items[key] = struct{}{}
	s.order = append(s.order, key)

	return true
}

// Has reports whether key was added before.
func (s *Set) Has(key string) bool {
	_, ok := s.items[key]

	return ok
}

// Len returns the number of visited keys.
func (s *Set) Len() int {
	return len(s.items)
}

// Ordered returns keys in the order they were first added.
func (s *Set) Ordered() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Sorted returns keys in lexical order.
func (s *Set) Sorted() []string {
	out := s.Ordered()
	sort.Strings(out)

	return out
}

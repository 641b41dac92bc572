package core

import (
	"sort"
	"strings"
)

// IDSet is an unordered set of node ids.
type IDSet map[string]struct{}

// NewIDSet returns a set holding ids, with duplicates collapsed.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s IDSet) Len() int {
	return len(s)
}

// CountPrefix counts the ids starting with prefix.
func (s IDSet) CountPrefix(prefix string) int {
	n := 0
	for id := range s {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

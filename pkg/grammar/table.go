package grammar

import (
	"fmt"
	"slices"
)

// FollowerTable maps a word type to the ordered list of word types that may
// follow it.
type FollowerTable map[string][]string

// Successors returns the permitted next types for wordType.
func (t FollowerTable) Successors(wordType string) ([]string, error) {
	followers, ok := t[wordType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, wordType)
	}
	if len(followers) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCandidateList, wordType)
	}
	return followers, nil
}

// Types returns the table's keys, sorted.
func (t FollowerTable) Types() []string {
	types := make([]string, 0, len(t))
	for k := range t {
		types = append(types, k)
	}
	slices.Sort(types)
	return types
}

// Clone returns a deep copy of the table.
func (t FollowerTable) Clone() FollowerTable {
	if t == nil {
		return nil
	}
	c := make(FollowerTable, len(t))
	for k, v := range t {
		c[k] = slices.Clone(v)
	}
	return c
}

package auth

import (
	"slices"
	"strings"
)

// Scope is a space-delimited set of Spotify permissions, e.g. "user-read-private playlist-read-private".
//
// Order and repetition carry no meaning.
type Scope string

// NewScope joins permissions into a [Scope].
func NewScope(perms ...string) Scope {
	return Scope(strings.Join(perms, " "))
}

// Fields returns the individual permissions.
func (s Scope) Fields() []string {
	return strings.Fields(string(s))
}

// IsSubset reports whether every permission in s is also in other.
func (s Scope) IsSubset(other Scope) bool {
	have := make(map[string]struct{})
	for _, p := range other.Fields() {
		have[p] = struct{}{}
	}
	for _, p := range s.Fields() {
		if _, ok := have[p]; !ok {
			return false
		}
	}
	return true
}

// Equal compares scopes as sets.
func (s Scope) Equal(other Scope) bool {
	return s.IsSubset(other) && other.IsSubset(s)
}

// Normalize returns the permissions sorted with duplicates removed.
func (s Scope) Normalize() Scope {
	fields := s.Fields()
	slices.Sort(fields)
	return NewScope(slices.Compact(fields)...)
}

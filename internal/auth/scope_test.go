package auth

import (
	"slices"
	"testing"
)

func TestScope(t *testing.T) {
	t.Run("IsSubset", func(t *testing.T) {
		tc := []struct {
			name string
			s    Scope
			of   Scope
			want bool
		}{
			{"reflexive", "a b", "a b", true},
			{"proper subset", "a b", "a b c", true},
			{"superset is not a subset", "a b c", "a b", false},
			{"order does not matter", "b a", "a b", true},
			{"extra whitespace is ignored", "  a   b ", "a b", true},
			{"empty is a subset of anything", "", "a", true},
			{"empty is a subset of empty", "", "", true},
			{"nothing non-empty is a subset of empty", "a", "", false},
			{"prefix is not a match", "user-read", "user-read-private", false},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.s.IsSubset(tt.of); got != tt.want {
					t.Errorf("%q.IsSubset(%q) = %v, want %v", tt.s, tt.of, got, tt.want)
				}
			})
		}
	})

	t.Run("Equal compares as sets", func(t *testing.T) {
		if !Scope("a b").Equal("b a") {
			t.Error("expected reordered scopes to be equal")
		}
		if !Scope("a a b").Equal("b a") {
			t.Error("expected duplicates to be ignored")
		}
		if Scope("a b").Equal("a") {
			t.Error("expected different sets to differ")
		}
	})

	t.Run("NewScope and Fields", func(t *testing.T) {
		s := NewScope("user-read-private", "user-read-email")
		if s != "user-read-private user-read-email" {
			t.Errorf("unexpected scope %q", s)
		}
		if got := s.Fields(); !slices.Equal(got, []string{"user-read-private", "user-read-email"}) {
			t.Errorf("unexpected fields %v", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		if got := Scope("c a b a").Normalize(); got != "a b c" {
			t.Errorf("expected \"a b c\", got %q", got)
		}
	})
}

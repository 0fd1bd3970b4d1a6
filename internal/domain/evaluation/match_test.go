package evaluation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchPaths(t *testing.T) {
	ref := []string{"a", "b.c", "d.0"}
	pred := []string{"a", "d.0", "d.1", "e"}

	got := MatchPaths(ref, pred)
	want := PathMatch{
		Matched: []string{"a", "d.0"},
		Missing: []string{"b.c"},
		Extra:   []string{"d.1", "e"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchPaths_Empty(t *testing.T) {
	got := MatchPaths(nil, []string{"x"})
	if len(got.Matched) != 0 || len(got.Missing) != 0 {
		t.Errorf("unexpected matches: %+v", got)
	}
	if len(got.Extra) != 1 || got.Extra[0] != "x" {
		t.Errorf("Extra = %v, want [x]", got.Extra)
	}
}

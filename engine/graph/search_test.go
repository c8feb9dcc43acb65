package graph

import "testing"

func TestJoinAndSingleClause(t *testing.T) {
	if got := joinAnd([]string{"a = 1"}); got != "a = 1" {
		t.Fatalf("expected single clause unchanged, got %q", got)
	}
}

func TestJoinAndMultipleClauses(t *testing.T) {
	got := joinAnd([]string{"a = 1", "b = 2", "c = 3"})
	want := "a = 1 AND b = 2 AND c = 3"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestJoinOrMultipleClauses(t *testing.T) {
	got := joinOr([]string{"x", "y"})
	want := "x OR y"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

package graph

import "testing"

func TestSplitPairSplitsOnFirstDelimiter(t *testing.T) {
	a, b, ok := splitPair("Germany|Berlin")
	if !ok || a != "Germany" || b != "Berlin" {
		t.Fatalf("expected Germany/Berlin, got %q/%q ok=%v", a, b, ok)
	}
}

func TestSplitPairNoDelimiterReturnsNotOK(t *testing.T) {
	_, _, ok := splitPair("Germany")
	if ok {
		t.Fatalf("expected ok=false when no delimiter present")
	}
}

func TestSplitPairSplitsOnlyFirstOccurrence(t *testing.T) {
	a, b, ok := splitPair("a|b|c")
	if !ok || a != "a" || b != "b|c" {
		t.Fatalf("expected first-occurrence split a/b|c, got %q/%q", a, b)
	}
}

package domain

import "testing"

func TestCEFRRankOrdering(t *testing.T) {
	levels := []CEFRLevel{CEFR_A1, CEFR_A2, CEFR_B1, CEFR_B2, CEFR_C1, CEFR_C2, CEFRNative}
	for i := 1; i < len(levels); i++ {
		if CEFRRank(levels[i-1]) >= CEFRRank(levels[i]) {
			t.Fatalf("expected %s to rank below %s", levels[i-1], levels[i])
		}
	}
}

func TestCEFRRankUnrecognisedIsZero(t *testing.T) {
	if r := CEFRRank(CEFRLevel("bogus")); r != 0 {
		t.Fatalf("expected unrecognised level to rank 0, got %d", r)
	}
}

func TestCEFRAtOrAboveIncludesThresholdAndAbove(t *testing.T) {
	out := CEFRAtOrAbove(CEFR_B2)
	want := map[CEFRLevel]bool{CEFR_B2: true, CEFR_C1: true, CEFR_C2: true, CEFRNative: true}
	if len(out) != len(want) {
		t.Fatalf("expected %d levels at or above B2, got %d: %v", len(want), len(out), out)
	}
	for _, lvl := range out {
		if !want[lvl] {
			t.Fatalf("unexpected level %s included", lvl)
		}
	}
}

func TestCEFRAtOrAboveNativeOnlyNative(t *testing.T) {
	out := CEFRAtOrAbove(CEFRNative)
	if len(out) != 1 || out[0] != CEFRNative {
		t.Fatalf("expected only Native, got %v", out)
	}
}

package search

import "testing"

func TestCombineResultsBothSetScoresPerWorkedExample(t *testing.T) {
	vectorResults := []Result{{UID: "r1", Score: 0.9}, {UID: "r2", Score: 0.6}}
	structuredResults := []Result{{UID: "r2"}}

	combined := combineResults(vectorResults, structuredResults, Weights{Vector: 0.7, Graph: 0.3}, 10)

	byUID := map[string]float64{}
	for _, r := range combined {
		byUID[r.UID] = r.Score
	}
	if got := byUID["r2"]; got < 0.719 || got > 0.721 {
		t.Fatalf("expected r2 (both-set) combined score ~0.72, got %v", got)
	}
	if got := byUID["r1"]; got < 0.629 || got > 0.631 {
		t.Fatalf("expected r1 (vector-only) combined score ~0.63, got %v", got)
	}
}

func TestCombineResultsGroupsBothSetBeforeVectorOnlyAndStructuredOnly(t *testing.T) {
	vectorResults := []Result{{UID: "vector-only", Score: 1.0}, {UID: "both", Score: 0.1}}
	structuredResults := []Result{{UID: "both"}, {UID: "structured-only"}}

	combined := combineResults(vectorResults, structuredResults, DefaultWeights, 10)
	if len(combined) != 3 {
		t.Fatalf("expected 3 combined results, got %d", len(combined))
	}
	if combined[0].UID != "both" {
		t.Fatalf("expected both-set result ranked first regardless of raw score, got %q", combined[0].UID)
	}
	if combined[1].UID != "vector-only" {
		t.Fatalf("expected vector-only result ranked second, got %q", combined[1].UID)
	}
	if combined[2].UID != "structured-only" {
		t.Fatalf("expected structured-only result ranked last, got %q", combined[2].UID)
	}
}

func TestCombineResultsCapsScoreAtOne(t *testing.T) {
	vectorResults := []Result{{UID: "r1", Score: 1.0}}
	structuredResults := []Result{{UID: "r1"}}
	combined := combineResults(vectorResults, structuredResults, Weights{Vector: 1.0, Graph: 1.0}, 10)
	if combined[0].Score != 1.0 {
		t.Fatalf("expected combined score capped at 1.0, got %v", combined[0].Score)
	}
}

func TestCombineResultsTruncatesToLimit(t *testing.T) {
	vectorResults := []Result{{UID: "r1", Score: 0.9}, {UID: "r2", Score: 0.5}, {UID: "r3", Score: 0.2}}
	combined := combineResults(vectorResults, nil, DefaultWeights, 2)
	if len(combined) != 2 {
		t.Fatalf("expected truncation to limit 2, got %d", len(combined))
	}
}

func TestWeightsNormalizeDefaultsWhenBothZero(t *testing.T) {
	w := Weights{}.Normalize()
	if w.Vector != 0.5 || w.Graph != 0.5 {
		t.Fatalf("expected 0.5/0.5 default, got %+v", w)
	}
}

func TestWeightsNormalizeLeavesNonZeroWeightsUntouched(t *testing.T) {
	w := Weights{Vector: 0.7, Graph: 0.3}.Normalize()
	if w.Vector != 0.7 || w.Graph != 0.3 {
		t.Fatalf("expected weights unchanged, got %+v", w)
	}
}

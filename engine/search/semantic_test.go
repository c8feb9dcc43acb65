package search

import (
	"testing"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/vector"
)

func TestGroupSemanticHitsTakesMaxScorePerUID(t *testing.T) {
	hits := []vector.SearchHit{
		{UID: "u1", Score: 0.4, Text: "first chunk"},
		{UID: "u1", Score: 0.9, Text: "second chunk"},
		{UID: "u2", Score: 0.6, Text: "only chunk"},
	}
	results := groupSemanticHits(hits, DefaultMaxMatchesPerResult)
	byUID := map[string]Result{}
	for _, r := range results {
		byUID[r.UID] = r
	}
	if byUID["u1"].Score != 0.9 {
		t.Fatalf("expected u1 score to be the max of its hits, got %v", byUID["u1"].Score)
	}
	if len(byUID["u1"].Matches) != 2 {
		t.Fatalf("expected both u1 hits kept as matches, got %d", len(byUID["u1"].Matches))
	}
	if byUID["u2"].Score != 0.6 {
		t.Fatalf("expected u2 score 0.6, got %v", byUID["u2"].Score)
	}
}

func TestGroupSemanticHitsTruncatesMatchesPerGroup(t *testing.T) {
	hits := make([]vector.SearchHit, 0, 10)
	for i := 0; i < 10; i++ {
		hits = append(hits, vector.SearchHit{UID: "u1", Score: float32(i) / 10, Text: "chunk"})
	}
	results := groupSemanticHits(hits, 3)
	if len(results) != 1 {
		t.Fatalf("expected one grouped result, got %d", len(results))
	}
	if len(results[0].Matches) != 3 {
		t.Fatalf("expected matches truncated to 3, got %d", len(results[0].Matches))
	}
	if results[0].Matches[0].Score < results[0].Matches[1].Score {
		t.Fatalf("expected matches sorted descending by score")
	}
}

func TestVectorFilterFromSearchFiltersSingleSkillMapsCleanly(t *testing.T) {
	f := domain.SearchFilters{Role: "Engineer", Skills: []string{"Go"}}
	vf := vectorFilterFromSearchFilters(f)
	if vf == nil {
		t.Fatal("expected non-nil filter")
	}
	if vf.Keyword["role"] != "Engineer" || vf.Keyword["skills"] != "Go" {
		t.Fatalf("unexpected keyword filter: %+v", vf.Keyword)
	}
}

func TestVectorFilterFromSearchFiltersMultiSkillNotMapped(t *testing.T) {
	f := domain.SearchFilters{Skills: []string{"Go", "Rust"}}
	vf := vectorFilterFromSearchFilters(f)
	if vf != nil {
		if _, ok := vf.Keyword["skills"]; ok {
			t.Fatalf("multi-skill AND constraints should not be pushed to the vector layer, got %v", vf.Keyword["skills"])
		}
	}
}

func TestVectorFilterFromSearchFiltersEmptyReturnsNil(t *testing.T) {
	if vf := vectorFilterFromSearchFilters(domain.SearchFilters{}); vf != nil {
		t.Fatalf("expected nil filter for empty SearchFilters, got %+v", vf)
	}
}

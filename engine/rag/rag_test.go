package rag

import (
	"testing"

	"github.com/resumariner/engine/engine/vector"
	"github.com/xeipuuv/gojsonschema"
)

func TestRankByOverallScoreOrdersDescending(t *testing.T) {
	overall := map[string]float64{"a": 7.5, "b": 9.1, "c": 4.0}
	ranked := rankByOverallScore(overall, []string{"a", "b", "c"})
	want := []string{"b", "a", "c"}
	for i, uid := range want {
		if ranked[i] != uid {
			t.Fatalf("expected ranking %v, got %v", want, ranked)
		}
	}
}

func TestRankByOverallScoreMissingScoreTreatedAsZero(t *testing.T) {
	overall := map[string]float64{"a": 1.0}
	ranked := rankByOverallScore(overall, []string{"b", "a"})
	if ranked[0] != "a" || ranked[1] != "b" {
		t.Fatalf("expected a (scored) before b (unscored), got %v", ranked)
	}
}

func TestFormatMatchContextEmptyHits(t *testing.T) {
	got := formatMatchContext(nil)
	if got != "(no additional chunk-level matches)" {
		t.Fatalf("unexpected empty-hits message: %q", got)
	}
}

func TestFormatMatchContextIncludesSourceAndScore(t *testing.T) {
	hits := []vector.SearchHit{{Source: "summary", Score: 0.87, Text: "Backend engineer."}}
	got := formatMatchContext(hits)
	if !contains(got, "summary") || !contains(got, "0.870") || !contains(got, "Backend engineer.") {
		t.Fatalf("expected formatted context to include source/score/text, got %q", got)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (haystack == needle || indexOf(haystack, needle) >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

func TestSchemasCompile(t *testing.T) {
	for name, raw := range map[string]string{
		"match":      jobMatchExplanationSchemaJSON,
		"comparison": candidateComparisonSchemaJSON,
		"interview":  interviewQuestionSetSchemaJSON,
	} {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw)); err != nil {
			t.Fatalf("%s schema failed to compile: %v", name, err)
		}
	}
}

func TestJobMatchExplanationSchemaRejectsOutOfRangeScore(t *testing.T) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobMatchExplanationSchemaJSON))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	doc := `{"match_score": 1.5, "recommendation": "strong_fit", "strengths": ["Go"], "summary": "` +
		repeatChar('x', 60) + `"}`
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid() {
		t.Fatalf("expected match_score=1.5 to fail validation")
	}
}

func repeatChar(c byte, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}

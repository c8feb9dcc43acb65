package ingest

import (
	"encoding/json"
	"testing"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/review"
)

func TestResultMarshalJSONOmitsReviewWhenAbsent(t *testing.T) {
	r := Result{Resume: domain.Resume{UID: "uid-1"}}
	data, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["review"]; ok {
		t.Fatalf("expected review to be omitted, got %s", decoded["review"])
	}
	if _, ok := decoded["resume"]; !ok {
		t.Fatal("expected resume key present")
	}
	if _, ok := decoded["metadata"]; !ok {
		t.Fatal("expected metadata key present")
	}
}

func TestResultMarshalJSONIncludesReviewAndMetadataError(t *testing.T) {
	score := 80
	r := Result{
		Resume:      domain.Resume{UID: "uid-1"},
		Review:      &review.Result{OverallScore: &score, Summary: "solid resume"},
		ReviewError: "processing_error",
	}
	data, err := r.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Review struct {
			OverallScore int    `json:"overall_score"`
			Summary      string `json:"summary"`
		} `json:"review"`
		Metadata struct {
			ReviewError string `json:"review_error"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Review.OverallScore != 80 || decoded.Review.Summary != "solid resume" {
		t.Fatalf("unexpected review: %+v", decoded.Review)
	}
	if decoded.Metadata.ReviewError != "processing_error" {
		t.Fatalf("expected review_error in metadata, got %q", decoded.Metadata.ReviewError)
	}
}

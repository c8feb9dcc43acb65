package structure

import (
	"strings"
	"testing"
	"time"

	"github.com/resumariner/engine/engine/domain"
)

func fixedNow() time.Time { return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) }

func TestFlattenJoinsPagesAndCollectsLinks(t *testing.T) {
	doc := domain.ParsedDocument{
		Pages: []domain.DocumentPage{
			{PageNumber: 1, Text: "page one", Links: []domain.DocumentLink{{Text: "a", URL: "https://a.example"}}},
			{PageNumber: 2, Text: "page two", Links: []domain.DocumentLink{{Text: "b", URL: "https://b.example"}}},
		},
	}
	text, links := flatten(doc)
	if text != "page one\npage two" {
		t.Fatalf("unexpected flattened text: %q", text)
	}
	if len(links) != 2 || links[0].URL != "https://a.example" || links[1].URL != "https://b.example" {
		t.Fatalf("unexpected links: %+v", links)
	}
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	s := "héllo wörld"
	got := truncate(s, 3)
	if []rune(got)[0] != 'h' || len([]rune(got)) != 3 {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if truncate(s, 1000) != s {
		t.Fatal("truncate should be a no-op when n exceeds rune count")
	}
}

func TestCharCountExcludingSpace(t *testing.T) {
	if got := charCountExcludingSpace("a b\nc\td"); got != 4 {
		t.Fatalf("expected 4 non-space chars, got %d", got)
	}
}

func TestBuildPromptIncludesSchemaAndStats(t *testing.T) {
	s := &Structurer{now: fixedNow}
	links := []domain.DocumentLink{{Text: "site", URL: "https://example.com"}}
	prompt := s.buildPrompt("hello world", links)

	if !strings.Contains(prompt, "July 31, 2026") {
		t.Fatal("expected prompt to embed today's date")
	}
	if !strings.Contains(prompt, `"personal_info"`) {
		t.Fatal("expected prompt to embed the resume JSON schema")
	}
	if !strings.Contains(prompt, "https://example.com") {
		t.Fatal("expected prompt to embed the provided links")
	}
	if !strings.Contains(prompt, "Number of provided links: 1") {
		t.Fatal("expected prompt to report link count")
	}
}

func TestBuildPromptTruncatesLongText(t *testing.T) {
	s := &Structurer{now: fixedNow}
	long := strings.Repeat("x", MaxResumeChars+500)
	prompt := s.buildPrompt(long, nil)
	base := strings.Count(s.buildPrompt("", nil), "x")
	if got := strings.Count(prompt, "x") - base; got != MaxResumeChars {
		t.Fatalf("expected exactly %d x characters of resume text in prompt, got %d", MaxResumeChars, got)
	}
}

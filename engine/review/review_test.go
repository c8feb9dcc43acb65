package review

import (
	"strings"
	"testing"
	"time"

	"github.com/resumariner/engine/engine/domain"
)

func fixedNow() time.Time { return time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) }

func sampleResume() domain.Resume {
	return domain.Resume{
		PersonalInfo: domain.PersonalInfo{
			Name:    "Ada Lovelace",
			Contact: domain.Contact{Email: "ada@example.com"},
		},
		Skills: []domain.Skill{{Name: "Go"}, {Name: "Redis"}},
	}
}

func TestPresentSkipsEmptySections(t *testing.T) {
	r := sampleResume()
	got := present(r)
	want := []string{"personal_info", "skills"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestPresentOmitsSectionWithNoData(t *testing.T) {
	r := domain.Resume{}
	got := present(r)
	if len(got) != 0 {
		t.Fatalf("expected no present sections for a zero-value resume, got %v", got)
	}
}

func TestBuildPromptIncludesOnlyPresentSections(t *testing.T) {
	rv := &Reviewer{now: fixedNow}
	prompt, err := rv.buildPrompt(sampleResume(), "full resume text")
	if err != nil {
		t.Fatalf("buildPrompt: %v", err)
	}
	if !strings.Contains(prompt, "SECTION: PERSONAL_INFO") {
		t.Fatal("expected personal_info section block")
	}
	if !strings.Contains(prompt, "SECTION: SKILLS") {
		t.Fatal("expected skills section block")
	}
	if strings.Contains(prompt, "SECTION: EDUCATION") {
		t.Fatal("did not expect an education section block for a resume with no education")
	}
	if !strings.Contains(prompt, "Ada Lovelace") {
		t.Fatal("expected section content to embed the resume's actual data")
	}
	if !strings.Contains(prompt, "07.2026") {
		t.Fatal("expected prompt to embed the current date")
	}
}

func TestCriteriaTableCoversEverySection(t *testing.T) {
	for _, key := range sectionOrder {
		c, ok := criteriaTable[key]
		if !ok {
			t.Fatalf("missing criteria for section %q", key)
		}
		if c.Must == "" || c.Should == "" || c.Advise == "" {
			t.Fatalf("incomplete criteria for section %q: %+v", key, c)
		}
	}
}

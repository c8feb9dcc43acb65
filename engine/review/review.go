// Package review implements the Reviewer (spec §4.G): an LLM pass that
// scores each present resume section against a fixed MUST/SHOULD/ADVISE
// rubric and returns an overall score and summary.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/llm"
	"github.com/xeipuuv/gojsonschema"
)

const systemPrompt = `You are a professional resume reviewer tasked with evaluating resume quality.

For each section, provide feedback in three categories:
1. MUST: critical issues that must be addressed (missing information, errors)
2. SHOULD: important recommendations that should be considered
3. ADVISE: optional advice for improvement

Only report genuine issues - if a section is good, return null for that category. Be specific and
actionable. Do not invent problems that don't exist. Focus on quality, completeness, and professionalism.`

// reviewTemperature matches the reference review service's sampling
// temperature; reviews are feedback text, not structured facts, so a little
// more variance than structuring is acceptable.
const reviewTemperature = 0.3

// SectionFeedback holds the three severity buckets for one section. A nil
// slice means no issues were found in that bucket.
type SectionFeedback struct {
	Must   []string `json:"must,omitempty"`
	Should []string `json:"should,omitempty"`
	Advise []string `json:"advise,omitempty"`
}

// Result is the reviewer's output, keyed by resume section.
type Result struct {
	PersonalInfo             *SectionFeedback `json:"personal_info,omitempty"`
	ProfessionalProfile      *SectionFeedback `json:"professional_profile,omitempty"`
	Skills                   *SectionFeedback `json:"skills,omitempty"`
	EmploymentHistory        *SectionFeedback `json:"employment_history,omitempty"`
	Projects                 *SectionFeedback `json:"projects,omitempty"`
	Education                *SectionFeedback `json:"education,omitempty"`
	Courses                  *SectionFeedback `json:"courses,omitempty"`
	Certifications           *SectionFeedback `json:"certifications,omitempty"`
	LanguageProficiency      *SectionFeedback `json:"language_proficiency,omitempty"`
	Awards                   *SectionFeedback `json:"awards,omitempty"`
	ScientificContributions  *SectionFeedback `json:"scientific_contributions,omitempty"`
	OverallScore             *int             `json:"overall_score,omitempty"`
	Summary                  string           `json:"summary,omitempty"`
}

// Reviewer evaluates a structured Resume section by section.
type Reviewer struct {
	llm    *llm.Client
	schema *gojsonschema.Schema
	now    func() time.Time
}

// New compiles the Result JSON schema once and binds it to an LLM client.
func New(client *llm.Client) (*Reviewer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("review: compile result schema: %w", err)
	}
	return &Reviewer{llm: client, schema: schema, now: time.Now}, nil
}

// Review produces a Result for resume. fullText is the original document's
// concatenated page text; Review embeds it as given, and the ingestion
// worker passes it untruncated (structure.FullText).
// Review generation is optional per job and its failure is non-fatal for
// ingestion (spec §4.G); callers decide how to record a returned error.
func (r *Reviewer) Review(ctx context.Context, resume domain.Resume, fullText string) (Result, error) {
	prompt, err := r.buildPrompt(resume, fullText)
	if err != nil {
		return Result{}, fmt.Errorf("review: build prompt: %w", err)
	}

	var result Result
	if err := llm.Run(ctx, r.llm, systemPrompt, prompt, r.schema, llm.Options{Temperature: reviewTemperature}, &result); err != nil {
		return Result{}, err
	}
	return result, nil
}

// present lists the sections in sectionOrder that have content in resume.
func present(resume domain.Resume) []string {
	has := map[string]bool{
		"personal_info":            resume.PersonalInfo.Name != "" || resume.PersonalInfo.Contact.Email != "",
		"professional_profile":     resume.Profile.Summary != "" || resume.Profile.Preferences.Role != "",
		"skills":                   len(resume.Skills) > 0,
		"employment_history":       len(resume.EmploymentHistory) > 0,
		"projects":                 len(resume.Projects) > 0,
		"education":                len(resume.Education) > 0,
		"courses":                  len(resume.Courses) > 0,
		"certifications":           len(resume.Certifications) > 0,
		"language_proficiency":     len(resume.Languages) > 0,
		"awards":                   len(resume.Awards) > 0,
		"scientific_contributions": len(resume.ScientificContributions) > 0,
	}
	var out []string
	for _, key := range sectionOrder {
		if has[key] {
			out = append(out, key)
		}
	}
	return out
}

// sectionData extracts the raw field of resume named by key, for embedding
// as JSON in that section's review block.
func sectionData(resume domain.Resume, key string) any {
	switch key {
	case "personal_info":
		return resume.PersonalInfo
	case "professional_profile":
		return resume.Profile
	case "skills":
		return resume.Skills
	case "employment_history":
		return resume.EmploymentHistory
	case "projects":
		return resume.Projects
	case "education":
		return resume.Education
	case "courses":
		return resume.Courses
	case "certifications":
		return resume.Certifications
	case "language_proficiency":
		return resume.Languages
	case "awards":
		return resume.Awards
	case "scientific_contributions":
		return resume.ScientificContributions
	default:
		return nil
	}
}

func (r *Reviewer) buildPrompt(resume domain.Resume, fullText string) (string, error) {
	var blocks []string
	for _, key := range present(resume) {
		c := criteriaTable[key]
		data, err := json.Marshal(map[string]any{key: sectionData(resume, key)})
		if err != nil {
			return "", fmt.Errorf("marshal section %q: %w", key, err)
		}
		blocks = append(blocks, fmt.Sprintf(`SECTION: %s

Review guidelines:
- MUST: %s
- SHOULD: %s
- ADVISE: %s

Section content:
%s`, strings.ToUpper(key), c.Must, c.Should, c.Advise, string(data)))
	}

	var b strings.Builder
	b.WriteString("Review this resume according to the guidelines below.\n\n")
	fmt.Fprintf(&b, "Current date: %s\n\n", r.now().UTC().Format("01.2006"))
	fmt.Fprintf(&b, "Full resume text:\n%s\n\n", fullText)
	b.WriteString("Resume sections to review:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	b.WriteString("\n\nFor each section, evaluate against MUST, SHOULD, and ADVISE. If a category has no issues, return null for it. Also return an overall_score from 0 to 100 and a short summary.")
	return b.String(), nil
}

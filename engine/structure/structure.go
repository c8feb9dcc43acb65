// Package structure implements the Content Structurer (spec §4.F): turning
// a ParsedDocument's pages into a Resume via a schema-constrained LLM call.
package structure

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

// MaxResumeChars bounds how many characters of concatenated page text are
// sent to the LLM (MAX_TOKENS_IN_RESUME_TO_PROCESS).
const MaxResumeChars = 30000

const systemPrompt = "You are a CV parser. Extract information from resumes and return structured data exactly matching the schema."

// Structurer turns extracted document pages into a Resume.
type Structurer struct {
	llm    *llm.Client
	schema *gojsonschema.Schema
	now    func() time.Time
}

// New compiles the Resume JSON schema once and binds it to an LLM client.
func New(client *llm.Client) (*Structurer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("structure: compile resume schema: %w", err)
	}
	return &Structurer{llm: client, schema: schema, now: time.Now}, nil
}

// Structure concatenates doc's pages, truncates to MaxResumeChars, and asks
// the LLM client to produce a Resume (without uid). Schema-validation
// failure is retried once by the LLM client itself, per spec §4.D/§4.F.
func (s *Structurer) Structure(ctx context.Context, doc domain.ParsedDocument) (domain.Resume, error) {
	text, links := flatten(doc)
	prompt := s.buildPrompt(text, links)

	var raw json.RawMessage
	if err := llm.Run(ctx, s.llm, systemPrompt, prompt, s.schema, llm.Options{}, &raw); err != nil {
		return domain.Resume{}, err
	}

	resume, err := domain.ParseResumeJSON(raw)
	if err != nil {
		return domain.Resume{}, err
	}
	return resume, nil
}

// FullText concatenates a ParsedDocument's page texts, untruncated, for
// use as grounding context outside the structurer itself (e.g. review).
func FullText(doc domain.ParsedDocument) string {
	text, _ := flatten(doc)
	return text
}

// flatten joins every page's text with newlines and collects every link
// across pages, in page order.
func flatten(doc domain.ParsedDocument) (string, []domain.DocumentLink) {
	var text strings.Builder
	var links []domain.DocumentLink
	for i, page := range doc.Pages {
		if i > 0 {
			text.WriteByte('\n')
		}
		text.WriteString(page.Text)
		links = append(links, page.Links...)
	}
	return text.String(), links
}

// truncate clamps s to at most n runes, since the source text may contain
// multi-byte characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// charCountExcludingSpace mirrors the Python reference's validation-metadata
// rule: report the character count with whitespace removed.
func charCountExcludingSpace(s string) int {
	count := 0
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		count++
	}
	return count
}

func (s *Structurer) buildPrompt(text string, links []domain.DocumentLink) string {
	truncated := truncate(text, MaxResumeChars)
	linksJSON, _ := json.Marshal(links)

	var b strings.Builder
	fmt.Fprintf(&b, "Today's date: %s\n\n", s.now().UTC().Format("January 2, 2006"))

	b.WriteString(`CRITICAL PROCESSING RULES:
- Return JSON with the data filled in, not the schema with empty placeholders.
- Preserve content values in their original language.
- Use normal capitalization; do not output text in all caps.
- If a field's value has a required separator or format, follow it.
- If a value conflicts with the proposed enum options but is clearly a different real value, use the actual value.
- If supplied data is malformed JSON (e.g. single quotes), fix it.
- Strip leading delimiters such as '-' or '.' from key points before the text.

URL HANDLING RULES:
- Every URL below came from the document's link annotations.
- A URL that encodes a company profile path (e.g. a LinkedIn company page) and whose company is named in the resume belongs on that company's entry.
- A URL that targets a code or project repository host, or is clearly tied to a named project, belongs on that project's url field.
- A URL that cannot be confidently tied to a company or project goes under other_links with a short label.
- No URL may be duplicated across buckets; once attributed, it appears only in that one place.

SECTION RULES:
- Personal info: capitalize the candidate's name normally. If employment type or work mode is not explicit, list every plausible value.
- Employment: use key points verbatim. Extract technologies only from an explicit "Stack:" section or equivalent. If a start month is not given (e.g. "2022 - Present"), default it to 01.
- Education: normalize status to completed, ongoing, or incomplete. Qualification is the degree title, not the field of study. Coursework goes under coursework, not extras. Only guess a university's location when at least 99% certain; otherwise leave every location field null.
- Projects: include only personal projects explicitly outside of employment, never duplicating an employment entry. If none qualify, omit the field.
- Languages: convert any proficiency description to CEFR (A1, A2, B1, B2, C1, C2, or Native).
- Location: if only a country is known, leave city null; never copy the country into city.
- Certifications: omit the field if none are mentioned.

`)

	fmt.Fprintf(&b, "Resume text length (excluding whitespace): %d characters\n", charCountExcludingSpace(truncated))
	fmt.Fprintf(&b, "Number of provided links: %d\n\n", len(links))

	b.WriteString("Return JSON matching this schema (keys in English, values in the source language unless noted):\n")
	b.WriteString(resumeSchemaJSON)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Provided URLs:\n%s\n\n", string(linksJSON))
	fmt.Fprintf(&b, "Resume text (process verbatim):\n%s", truncated)

	return b.String()
}

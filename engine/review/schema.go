package review

// sectionFeedbackSchema is reused for every section key in resultSchemaJSON.
const sectionFeedbackSchema = `{
  "type": ["object", "null"],
  "properties": {
    "must": {"type": ["array", "null"], "items": {"type": "string"}},
    "should": {"type": ["array", "null"], "items": {"type": "string"}},
    "advise": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

// resultSchemaJSON describes Result: one optional SectionFeedback per
// section, an overall score, and a summary.
var resultSchemaJSON = `{
  "type": "object",
  "properties": {
    "personal_info": ` + sectionFeedbackSchema + `,
    "professional_profile": ` + sectionFeedbackSchema + `,
    "skills": ` + sectionFeedbackSchema + `,
    "employment_history": ` + sectionFeedbackSchema + `,
    "projects": ` + sectionFeedbackSchema + `,
    "education": ` + sectionFeedbackSchema + `,
    "courses": ` + sectionFeedbackSchema + `,
    "certifications": ` + sectionFeedbackSchema + `,
    "language_proficiency": ` + sectionFeedbackSchema + `,
    "awards": ` + sectionFeedbackSchema + `,
    "scientific_contributions": ` + sectionFeedbackSchema + `,
    "overall_score": {"type": ["integer", "null"], "minimum": 0, "maximum": 100},
    "summary": {"type": ["string", "null"]}
  }
}`

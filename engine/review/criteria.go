package review

// Criteria names the three severity buckets' evaluation rules for one
// resume section.
type Criteria struct {
	SectionName string
	Must        string
	Should      string
	Advise      string
}

// criteriaTable is the static per-section review rubric, ported from the
// reference review service's REVIEW_CRITERIA table.
var criteriaTable = map[string]Criteria{
	"personal_info": {
		SectionName: "Personal Information",
		Must:        "Verify email, phone (international format), full name, LinkedIn URL are present. Technical roles with under 3 years of experience need a GitHub profile. Report only missing or malformed fields.",
		Should:      "Check name capitalization and clarity of contact details.",
		Advise:      "Suggest improvements only when key information is absent or ambiguous.",
	},
	"professional_profile": {
		SectionName: "Professional Profile",
		Must:        "Ensure the summary and preferences reflect realistic objectives. Report only omissions or unclear statements.",
		Should:      "Check employment-type and role consistency.",
		Advise:      "Suggest details that would strengthen the profile.",
	},
	"skills": {
		SectionName: "Skills",
		Must:        "Verify relevance, categorization, and alignment with the profile. Skills must not carry proficiency levels.",
		Should:      "Check grouping and formatting.",
		Advise:      "Suggest categorization improvements based on career goals.",
	},
	"employment_history": {
		SectionName: "Employment History",
		Must:        "Verify dates, company, position, responsibilities, and tech stack are present.",
		Should:      "Check that key points follow the XYZ format: 'Accomplished [X] measured by [Y], by doing [Z]'.",
		Advise:      "Suggest quantifiable achievements where appropriate.",
	},
	"projects": {
		SectionName: "Projects",
		Must:        "If the section is present, ensure relevance and completeness.",
		Should:      "Check description clarity and consistency.",
		Advise:      "Suggest additional detail for underspecified projects.",
	},
	"education": {
		SectionName: "Education",
		Must:        "Verify institution, qualification, field, and dates are complete.",
		Should:      "Check date formats and degree naming.",
		Advise:      "For students or new graduates, suggest highlighting coursework or a thesis.",
	},
	"courses": {
		SectionName: "Courses",
		Must:        "If courses are present, verify name, organization, and completion year.",
		Should:      "Check naming consistency and URL validity.",
		Advise:      "Suggest adding URLs or completion certificates.",
	},
	"certifications": {
		SectionName: "Certifications",
		Must:        "If certifications are present, verify dates and issuing organizations.",
		Should:      "Check relevance and currency.",
		Advise:      "Suggest removing outdated certifications or adding relevant new ones.",
	},
	"language_proficiency": {
		SectionName: "Language Proficiency",
		Must:        "For international experience, verify CEFR levels are standardized.",
		Should:      "Check naming consistency across languages.",
		Advise:      "Suggest adding languages for candidates with international experience.",
	},
	"awards": {
		SectionName: "Awards",
		Must:        "Verify names, organizations, and dates are complete.",
		Should:      "Ensure descriptions are clear and relevant.",
		Advise:      "Suggest highlighting the most prestigious or relevant awards.",
	},
	"scientific_contributions": {
		SectionName: "Scientific Contributions",
		Must:        "Verify publication details and dates for accuracy.",
		Should:      "Check formatting consistency across entries.",
		Advise:      "Suggest organizing entries by impact or relevance.",
	},
}

// sectionOrder fixes the order sections are evaluated in, matching the
// field order of domain.Resume / Result.
var sectionOrder = []string{
	"personal_info", "professional_profile", "skills", "employment_history",
	"projects", "education", "courses", "certifications",
	"language_proficiency", "awards", "scientific_contributions",
}

// Package domain defines the Resume aggregate, its value types, and
// validation for the ingestion and retrieval pipeline. It acts as the
// validation gate at pipeline entry points.
package domain

import "time"

// EmploymentType enumerates how a position was held.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentFreelance  EmploymentType = "freelance"
)

// ValidEmploymentTypes is the set of recognised employment types.
var ValidEmploymentTypes = map[EmploymentType]bool{
	EmploymentFullTime: true, EmploymentPartTime: true, EmploymentContract: true,
	EmploymentInternship: true, EmploymentFreelance: true,
}

// WorkMode enumerates where work happens.
type WorkMode string

const (
	WorkModeOnsite WorkMode = "onsite"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

// ValidWorkModes is the set of recognised work modes.
var ValidWorkModes = map[WorkMode]bool{
	WorkModeOnsite: true, WorkModeRemote: true, WorkModeHybrid: true,
}

// EducationStatus enumerates the completion state of an EducationItem.
type EducationStatus string

const (
	EducationCompleted  EducationStatus = "completed"
	EducationOngoing    EducationStatus = "ongoing"
	EducationIncomplete EducationStatus = "incomplete"
)

// ValidEducationStatuses is the set of recognised education statuses.
var ValidEducationStatuses = map[EducationStatus]bool{
	EducationCompleted: true, EducationOngoing: true, EducationIncomplete: true,
}

// AwardType enumerates the kind of an Award.
type AwardType string

const (
	AwardHackathon   AwardType = "hackathon"
	AwardCompetition AwardType = "competition"
	AwardRecognition AwardType = "recognition"
	AwardScholarship AwardType = "scholarship"
	AwardOther       AwardType = "other"
)

// ValidAwardTypes is the set of recognised award types.
var ValidAwardTypes = map[AwardType]bool{
	AwardHackathon: true, AwardCompetition: true, AwardRecognition: true,
	AwardScholarship: true, AwardOther: true,
}

// PublicationType enumerates the kind of a ScientificContribution.
type PublicationType string

const (
	PublicationJournalArticle  PublicationType = "journal_article"
	PublicationConferencePaper PublicationType = "conference_paper"
	PublicationPatent          PublicationType = "patent"
	PublicationThesis          PublicationType = "thesis"
	PublicationTechnicalReport PublicationType = "technical_report"
	PublicationOther           PublicationType = "other"
)

// ValidPublicationTypes is the set of recognised publication types.
var ValidPublicationTypes = map[PublicationType]bool{
	PublicationJournalArticle: true, PublicationConferencePaper: true,
	PublicationPatent: true, PublicationThesis: true,
	PublicationTechnicalReport: true, PublicationOther: true,
}

// CEFRLevel enumerates self-assessed language proficiency, A1 through
// native.
type CEFRLevel string

const (
	CEFR_A1    CEFRLevel = "A1"
	CEFR_A2    CEFRLevel = "A2"
	CEFR_B1    CEFRLevel = "B1"
	CEFR_B2    CEFRLevel = "B2"
	CEFR_C1    CEFRLevel = "C1"
	CEFR_C2    CEFRLevel = "C2"
	CEFRNative CEFRLevel = "Native"
)

// ValidCEFRLevels is the set of recognised CEFR levels.
var ValidCEFRLevels = map[CEFRLevel]bool{
	CEFR_A1: true, CEFR_A2: true, CEFR_B1: true, CEFR_B2: true,
	CEFR_C1: true, CEFR_C2: true, CEFRNative: true,
}

// Location is a free-text geography reference.
type Location struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

// ContactLinks holds known social/portfolio URLs.
type ContactLinks struct {
	LinkedIn string   `json:"linkedin,omitempty"`
	GitHub   string   `json:"github,omitempty"`
	Website  string   `json:"website,omitempty"`
	Other    []string `json:"other,omitempty"`
}

// Contact is the unique-by-email identity of a candidate (I1).
type Contact struct {
	Email string       `json:"email"`
	Phone string       `json:"phone,omitempty"`
	Links ContactLinks `json:"links,omitempty"`
}

// WorkAuthorization describes legal eligibility to work in a location.
type WorkAuthorization struct {
	Country             string `json:"country,omitempty"`
	Status              string `json:"status,omitempty"`
	RequiresSponsorship bool   `json:"requires_sponsorship,omitempty"`
}

// Demographics is optional and never required by validation.
type Demographics struct {
	Location          Location          `json:"location,omitempty"`
	WorkAuthorization WorkAuthorization `json:"work_authorization,omitempty"`
}

// PersonalInfo identifies the candidate.
type PersonalInfo struct {
	Name         string        `json:"name"`
	ResumeLang   string        `json:"resume_lang,omitempty"`
	Contact      Contact       `json:"contact"`
	Demographics *Demographics `json:"demographics,omitempty"`
}

// JobPreferences captures what the candidate is looking for.
type JobPreferences struct {
	Role            string           `json:"role,omitempty"`
	EmploymentTypes []EmploymentType `json:"employment_types,omitempty"`
	WorkModes       []WorkMode       `json:"work_modes,omitempty"`
	Salary          string           `json:"salary,omitempty"`
}

// ProfessionalProfile is the summary/preferences section.
type ProfessionalProfile struct {
	Summary     string         `json:"summary,omitempty"`
	Preferences JobPreferences `json:"preferences,omitempty"`
}

// Skill is a shared lookup node (I2); identity is Name.
type Skill struct {
	Name string `json:"name"`
}

// CompanyInfo is a shared lookup node (I2); identity is Name.
type CompanyInfo struct {
	Name string `json:"name"`
}

// InstitutionInfo is a shared lookup node (I2); identity is Name.
type InstitutionInfo struct {
	Name string `json:"name"`
}

// Language is a shared lookup node (I2); identity is Name.
type Language struct {
	Name string `json:"name"`
}

// EmploymentDuration carries the YYYY.MM window for a position (I5).
type EmploymentDuration struct {
	DateFormat     string `json:"date_format,omitempty"`
	Start          string `json:"start"`
	End            string `json:"end,omitempty"`
	DurationMonths int    `json:"duration_months"`
}

// KeyPoint is one bullet of accomplishment text.
type KeyPoint struct {
	Text string `json:"text"`
}

// Technology is an in-resume-only leaf, unlike Skill which is shared
// globally (I2).
type Technology struct {
	Name string `json:"name"`
}

// EmploymentHistoryItem is one position held by the candidate.
type EmploymentHistoryItem struct {
	Position       string             `json:"position"`
	EmploymentType EmploymentType     `json:"employment_type,omitempty"`
	WorkMode       WorkMode           `json:"work_mode,omitempty"`
	Company        CompanyInfo        `json:"company"`
	Duration       EmploymentDuration `json:"duration"`
	Location       Location           `json:"location,omitempty"`
	KeyPoints      []KeyPoint         `json:"key_points,omitempty"`
	Technologies   []Technology       `json:"technologies,omitempty"`
}

// Project is a side or professional project independent of employment.
type Project struct {
	Title        string       `json:"title"`
	URL          string       `json:"url,omitempty"`
	Technologies []Technology `json:"technologies,omitempty"`
	KeyPoints    []KeyPoint   `json:"key_points,omitempty"`
}

// Coursework is a single course named inside an EducationItem.
type Coursework struct {
	Name string `json:"name"`
}

// EducationExtra is a free-text addendum (honors, thesis title, GPA note).
type EducationExtra struct {
	Text string `json:"text"`
}

// EducationItem is one degree or program of study.
type EducationItem struct {
	Qualification string           `json:"qualification"`
	Field         string           `json:"field,omitempty"`
	Institution   InstitutionInfo  `json:"institution"`
	Status        EducationStatus  `json:"status"`
	Coursework    []Coursework     `json:"coursework,omitempty"`
	Extras        []EducationExtra `json:"extras,omitempty"`
}

// Course is a standalone completed course, distinct from an EducationItem.
type Course struct {
	Name     string `json:"name"`
	Provider string `json:"provider,omitempty"`
	Year     string `json:"year,omitempty"`
}

// Certification is a professional credential.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// LanguageProficiency pairs a shared Language node with a self-assessed
// level.
type LanguageProficiency struct {
	Language     Language  `json:"language"`
	SelfAssessed bool      `json:"self_assessed,omitempty"`
	CEFR         CEFRLevel `json:"cefr,omitempty"`
}

// Award is a hackathon win, scholarship, or similar recognition.
type Award struct {
	Title     string    `json:"title"`
	AwardType AwardType `json:"award_type,omitempty"`
	Year      string    `json:"year,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
}

// ScientificContribution is a publication, patent, or thesis.
type ScientificContribution struct {
	Title           string          `json:"title"`
	PublicationType PublicationType `json:"publication_type,omitempty"`
	Venue           string          `json:"venue,omitempty"`
	Year            string          `json:"year,omitempty"`
	URL             string          `json:"url,omitempty"`
}

// Resume is the aggregate root persisted to both the graph and vector
// stores. Uid is empty until the first successful ingest assigns one.
type Resume struct {
	UID                     string                   `json:"uid,omitempty"`
	PersonalInfo            PersonalInfo             `json:"personal_info"`
	Profile                 ProfessionalProfile      `json:"profile,omitempty"`
	Skills                  []Skill                  `json:"skills,omitempty"`
	EmploymentHistory       []EmploymentHistoryItem  `json:"employment_history,omitempty"`
	Projects                []Project                `json:"projects,omitempty"`
	Education               []EducationItem          `json:"education,omitempty"`
	Courses                 []Course                 `json:"courses,omitempty"`
	Certifications          []Certification          `json:"certifications,omitempty"`
	Languages               []LanguageProficiency    `json:"languages,omitempty"`
	Awards                  []Award                  `json:"awards,omitempty"`
	ScientificContributions []ScientificContribution `json:"scientific_contributions,omitempty"`
	CreatedAt               time.Time                `json:"created_at,omitempty"`
	UpdatedAt               time.Time                `json:"updated_at,omitempty"`
}

// YearsOfExperience sums EmploymentDuration.DurationMonths across the
// candidate's history, rounded down to whole years.
func (r *Resume) YearsOfExperience() int {
	months := 0
	for _, e := range r.EmploymentHistory {
		months += e.Duration.DurationMonths
	}
	return months / 12
}

// HasSkill reports whether name matches a Skill case-insensitively.
func (r *Resume) HasSkill(name string) bool {
	for _, s := range r.Skills {
		if equalFold(s.Name, name) {
			return true
		}
	}
	return false
}

// Technologies flattens every Technology named across employment and
// projects, deduplicated by name in first-seen order, for search metadata
// and filter facets.
func (r *Resume) Technologies() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, e := range r.EmploymentHistory {
		for _, t := range e.Technologies {
			add(t.Name)
		}
	}
	for _, p := range r.Projects {
		for _, t := range p.Technologies {
			add(t.Name)
		}
	}
	return out
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// EmbeddingSource classifies which part of a Resume an EmbeddingPoint's
// text came from.
type EmbeddingSource string

const (
	SourceSummary    EmbeddingSource = "summary"
	SourceSkill      EmbeddingSource = "skill"
	SourceEmployment EmbeddingSource = "employment"
	SourceProject    EmbeddingSource = "project"
	SourceEducation  EmbeddingSource = "education"
)

// EmbeddingPoint is one vector written to the vector store, tagged with the
// owning Resume's uid as its join key. Id is fresh on every write; uid is
// stable across re-ingests.
type EmbeddingPoint struct {
	ID              string          `json:"id"`
	UID             string          `json:"uid"`
	Vector          []float32       `json:"vector"`
	Text            string          `json:"text"`
	Source          EmbeddingSource `json:"source"`
	Context         string          `json:"context,omitempty"`
	Name            string          `json:"name,omitempty"`
	Email           string          `json:"email,omitempty"`
	Skills          []string        `json:"skills,omitempty"`
	Technologies    []string        `json:"technologies,omitempty"`
	Companies       []string        `json:"companies,omitempty"`
	Role            string          `json:"role,omitempty"`
	Location        string          `json:"location,omitempty"`
	YearsExperience int             `json:"years_experience,omitempty"`
}

// JobStatus enumerates the Job state machine: pending -> processing ->
// (completed | failed).
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job tracks one ingestion task end to end. Retention TTL is applied on
// every write by the job store.
type Job struct {
	JobID           string    `json:"job_id"`
	Status          JobStatus `json:"status"`
	FilePath        string    `json:"file_path"`
	ReviewRequested bool      `json:"review_requested,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Result          string    `json:"result,omitempty"`
	ResultURL       string    `json:"result_url,omitempty"`
	Error           string    `json:"error,omitempty"`
	Attempts        int       `json:"attempts"`
}

// DocumentLink is one hyperlink anchored to a word span on a page.
type DocumentLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// DocumentPage is one page of extracted text plus its anchored links.
type DocumentPage struct {
	PageNumber int            `json:"page_number"`
	Text       string         `json:"text"`
	Links      []DocumentLink `json:"links"`
}

// ParsedDocument is the output of the Document Extractor.
type ParsedDocument struct {
	FileType         string         `json:"file_type"`
	ProcessedAt      time.Time      `json:"processed_at"`
	ProcessingMethod string         `json:"processing_method,omitempty"`
	Pages            []DocumentPage `json:"pages"`
}

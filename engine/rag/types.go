// Package rag implements the RAG Service (spec §4.L): three
// schema-constrained LLM operations over a resume's graph and vector
// context — match explanation, candidate comparison, and interview
// question generation.
package rag

// Recommendation is ExplainMatch's overall fit verdict.
type Recommendation string

const (
	StrongFit   Recommendation = "strong_fit"
	ModerateFit Recommendation = "moderate_fit"
	WeakFit     Recommendation = "weak_fit"
)

// Severity grades a Concern.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Concern is one reason a candidate may not fit a job description.
type Concern struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// JobMatchExplanation is ExplainMatch's structured output.
type JobMatchExplanation struct {
	MatchScore      float64        `json:"match_score"`
	Recommendation  Recommendation `json:"recommendation"`
	Strengths       []string       `json:"strengths"`
	Concerns        []Concern      `json:"concerns,omitempty"`
	Summary         string         `json:"summary"`
	DiscussionPoints []string      `json:"discussion_points,omitempty"`
}

// DimensionScore rates one candidate on the four fixed comparison
// dimensions.
type DimensionScore struct {
	TechnicalSkills float64 `json:"technical_skills"`
	Experience      float64 `json:"experience"`
	CulturalFit     float64 `json:"cultural_fit"`
	GrowthPotential float64 `json:"growth_potential"`
}

// DimensionComparison compares every candidate on one named dimension,
// keyed by uid.
type DimensionComparison struct {
	Dimension   string            `json:"dimension"`
	Assessments map[string]string `json:"assessments"`
}

// CandidateComparison is CompareCandidates's structured output.
type CandidateComparison struct {
	Scores                map[string]DimensionScore `json:"scores"`
	OverallScores          map[string]float64         `json:"overall_scores"`
	DimensionComparisons   []DimensionComparison       `json:"dimension_comparisons"`
	ScenarioRecommendations map[string]string          `json:"scenario_recommendations,omitempty"`
	RiskAssessments        map[string]string          `json:"risk_assessments,omitempty"`
	RankedUIDs             []string                   `json:"ranked_uids"`
}

// InterviewType selects the question set's focus.
type InterviewType string

const (
	InterviewTechnical InterviewType = "technical"
	InterviewBehavioral InterviewType = "behavioral"
	InterviewGeneral    InterviewType = "general"
)

// QuestionCategory classifies one interview question.
type QuestionCategory string

const (
	CategoryTechnical     QuestionCategory = "technical"
	CategoryBehavioral    QuestionCategory = "behavioral"
	CategorySituational   QuestionCategory = "situational"
	CategoryCultureFit    QuestionCategory = "culture_fit"
	CategoryProblemSolving QuestionCategory = "problem_solving"
)

// SeniorityLevel grades a question's difficulty.
type SeniorityLevel string

const (
	SeniorityJunior SeniorityLevel = "junior"
	SeniorityMid    SeniorityLevel = "mid"
	SenioritySenior SeniorityLevel = "senior"
	SeniorityStaff  SeniorityLevel = "staff"
)

// InterviewQuestion is one question in a generated set.
type InterviewQuestion struct {
	Question            string           `json:"question"`
	Category             QuestionCategory `json:"category"`
	Difficulty           SeniorityLevel   `json:"difficulty"`
	FollowUps            []string         `json:"follow_ups,omitempty"`
	RedFlags              []string         `json:"red_flags,omitempty"`
	GoodAnswerIndicators []string         `json:"good_answer_indicators,omitempty"`
	TimeEstimateMinutes  int              `json:"time_estimate_minutes"`
}

// InterviewQuestionSet is GenerateInterviewQuestions's structured output.
type InterviewQuestionSet struct {
	Questions                   []InterviewQuestion `json:"questions"`
	TotalRecommendedDurationMinutes int              `json:"total_recommended_duration_minutes"`
}

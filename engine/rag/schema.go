package rag

// jobMatchExplanationSchemaJSON constrains ExplainMatch's output to the
// cardinalities spec §4.L names: 1-5 strengths, 0-5 concerns, a
// 50-500 char summary, up to 3 discussion points.
const jobMatchExplanationSchemaJSON = `{
  "type": "object",
  "required": ["match_score", "recommendation", "strengths", "summary"],
  "properties": {
    "match_score": {"type": "number", "minimum": 0, "maximum": 1},
    "recommendation": {"type": "string", "enum": ["strong_fit", "moderate_fit", "weak_fit"]},
    "strengths": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 5},
    "concerns": {
      "type": "array",
      "maxItems": 5,
      "items": {
        "type": "object",
        "required": ["description", "severity"],
        "properties": {
          "description": {"type": "string"},
          "severity": {"type": "string", "enum": ["critical", "moderate", "minor"]}
        }
      }
    },
    "summary": {"type": "string", "minLength": 50, "maxLength": 500},
    "discussion_points": {"type": "array", "items": {"type": "string"}, "maxItems": 3}
  }
}`

// dimensionScoreSchema rates a candidate on the four fixed dimensions,
// each 0-10.
const dimensionScoreSchema = `{
  "type": "object",
  "required": ["technical_skills", "experience", "cultural_fit", "growth_potential"],
  "properties": {
    "technical_skills": {"type": "number", "minimum": 0, "maximum": 10},
    "experience": {"type": "number", "minimum": 0, "maximum": 10},
    "cultural_fit": {"type": "number", "minimum": 0, "maximum": 10},
    "growth_potential": {"type": "number", "minimum": 0, "maximum": 10}
  }
}`

// candidateComparisonSchemaJSON constrains CompareCandidates's output:
// 4-8 dimension comparisons, ranked_uids sized to the 2-5 candidates the
// request named.
const candidateComparisonSchemaJSON = `{
  "type": "object",
  "required": ["scores", "overall_scores", "dimension_comparisons", "ranked_uids"],
  "properties": {
    "scores": {"type": "object", "additionalProperties": ` + dimensionScoreSchema + `},
    "overall_scores": {"type": "object", "additionalProperties": {"type": "number", "minimum": 0, "maximum": 10}},
    "dimension_comparisons": {
      "type": "array",
      "minItems": 4,
      "maxItems": 8,
      "items": {
        "type": "object",
        "required": ["dimension", "assessments"],
        "properties": {
          "dimension": {"type": "string"},
          "assessments": {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    },
    "scenario_recommendations": {"type": "object", "additionalProperties": {"type": "string"}},
    "risk_assessments": {"type": "object", "additionalProperties": {"type": "string"}},
    "ranked_uids": {"type": "array", "items": {"type": "string"}, "minItems": 2, "maxItems": 5}
  }
}`

// interviewQuestionSchema is one question in interviewQuestionSetSchemaJSON.
const interviewQuestionSchema = `{
  "type": "object",
  "required": ["question", "category", "difficulty", "time_estimate_minutes"],
  "properties": {
    "question": {"type": "string"},
    "category": {"type": "string", "enum": ["technical", "behavioral", "situational", "culture_fit", "problem_solving"]},
    "difficulty": {"type": "string", "enum": ["junior", "mid", "senior", "staff"]},
    "follow_ups": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 4},
    "red_flags": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 3},
    "good_answer_indicators": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 3},
    "time_estimate_minutes": {"type": "integer", "minimum": 2, "maximum": 15}
  }
}`

// interviewQuestionSetSchemaJSON constrains GenerateInterviewQuestions's
// output to 6-12 questions and a 30-90 minute recommended total duration.
const interviewQuestionSetSchemaJSON = `{
  "type": "object",
  "required": ["questions", "total_recommended_duration_minutes"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 6,
      "maxItems": 12,
      "items": ` + interviewQuestionSchema + `
    },
    "total_recommended_duration_minutes": {"type": "integer", "minimum": 30, "maximum": 90}
  }
}`

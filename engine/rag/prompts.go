package rag

import (
	"fmt"
	"strings"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/vector"
)

const explainMatchSystemPrompt = `You are an expert technical recruiter assessing how well a candidate's resume matches a job description.

Score the match from 0 to 1 and classify it as strong_fit, moderate_fit, or weak_fit. List genuine strengths the
candidate brings to this role and any concerns, each rated critical, moderate, or minor. Write a 2-3 sentence
summary and up to three discussion points an interviewer could raise. Do not invent qualifications the resume
does not support.`

func buildExplainMatchPrompt(resume domain.Resume, jobDescription string, hits []vector.SearchHit) (string, error) {
	resumeJSON, err := marshalResumeContext(resume)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Job description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nCandidate resume (structured):\n")
	b.WriteString(resumeJSON)
	b.WriteString("\n\nAdditional matching excerpts from the candidate's resume:\n")
	b.WriteString(formatMatchContext(hits))
	b.WriteString("\n\nProduce a match_score, recommendation, strengths, concerns, summary, and discussion_points.")
	return b.String(), nil
}

const compareCandidatesSystemPrompt = `You are an expert technical recruiter comparing multiple candidates for the same hiring decision.

Score every candidate on four dimensions (technical_skills, experience, cultural_fit, growth_potential), each 0-10,
and compute an overall score per candidate. Produce 4-8 dimension_comparisons, each naming a dimension and giving
a per-candidate assessment keyed by the candidate's uid. Offer scenario_recommendations (which candidate fits
which kind of role or team) and risk_assessments per candidate. Base every claim only on the resumes given.`

func buildComparisonPrompt(resumes []domain.Resume, criteria []string, jobContext string) (string, error) {
	var b strings.Builder
	b.WriteString("Candidates:\n")
	for _, r := range resumes {
		resumeJSON, err := marshalResumeContext(r)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "uid=%s:\n%s\n\n", r.UID, resumeJSON)
	}
	if len(criteria) > 0 {
		b.WriteString("Additional comparison criteria requested: ")
		b.WriteString(strings.Join(criteria, ", "))
		b.WriteString("\n\n")
	}
	if jobContext != "" {
		b.WriteString("Job context:\n")
		b.WriteString(jobContext)
		b.WriteString("\n\n")
	}
	b.WriteString("Produce scores, overall_scores, dimension_comparisons, scenario_recommendations, and risk_assessments keyed by uid.")
	return b.String(), nil
}

const interviewQuestionsSystemPrompt = `You are an expert technical interviewer designing an interview plan for a specific candidate.

Produce 6-12 questions spanning the technical, behavioral, situational, culture_fit, and problem_solving
categories as appropriate to the requested interview_type, each with a difficulty level (junior, mid, senior,
staff) matched to the candidate's experience, 1-4 follow-up questions, 1-3 red flags to watch for, 1-3 good-answer
indicators, and a time estimate in minutes (2-15). Recommend a total interview duration between 30 and 90 minutes.`

func buildInterviewPrompt(resume domain.Resume, interviewType InterviewType, roleContext string, focusAreas []string) (string, error) {
	resumeJSON, err := marshalResumeContext(resume)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Interview type: %s\n\n", interviewType)
	if roleContext != "" {
		fmt.Fprintf(&b, "Role context: %s\n\n", roleContext)
	}
	if len(focusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s\n\n", strings.Join(focusAreas, ", "))
	}
	b.WriteString("Candidate resume:\n")
	b.WriteString(resumeJSON)
	b.WriteString("\n\nProduce questions and total_recommended_duration_minutes.")
	return b.String(), nil
}

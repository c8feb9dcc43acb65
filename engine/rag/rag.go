package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/embed"
	"github.com/resumariner/engine/engine/graph"
	"github.com/resumariner/engine/engine/llm"
	"github.com/resumariner/engine/engine/vector"
	"github.com/resumariner/engine/pkg/metrics"
	"github.com/xeipuuv/gojsonschema"
)

// matchContextK is the number of additional vector matches ExplainMatch
// retrieves per spec §4.L.
const matchContextK = 20

const explainTemperature = 0.2
const compareTemperature = 0.3
const interviewTemperature = 0.4

// Service runs the three RAG operations over a resume's graph-stored
// fields and its own vector embeddings.
type Service struct {
	LLM     *llm.Client
	Graph   *graph.GraphStore
	Vectors *vector.Store
	Embedder *embed.Client

	matchSchema      *gojsonschema.Schema
	comparisonSchema *gojsonschema.Schema
	interviewSchema  *gojsonschema.Schema

	metrics *metrics.Registry
}

// New compiles the three structured-output schemas once and binds them to
// an LLM client plus the graph/vector stores they read context from.
func New(llmClient *llm.Client, g *graph.GraphStore, vectors *vector.Store, embedder *embed.Client, reg *metrics.Registry) (*Service, error) {
	matchSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobMatchExplanationSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("rag: compile match explanation schema: %w", err)
	}
	comparisonSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(candidateComparisonSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("rag: compile candidate comparison schema: %w", err)
	}
	interviewSchema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(interviewQuestionSetSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("rag: compile interview question set schema: %w", err)
	}

	s := &Service{
		LLM: llmClient, Graph: g, Vectors: vectors, Embedder: embedder,
		matchSchema: matchSchema, comparisonSchema: comparisonSchema, interviewSchema: interviewSchema,
		metrics: reg,
	}
	return s, nil
}

// observe wraps op with a per-feature timer and success/error counter
// (spec §4.L: "all three are wrapped with a metrics timer and a
// success/error counter by feature name"). Each feature gets its own
// counter/histogram series via a "feature" label.
func (s *Service) observe(feature string, op func() error) error {
	start := time.Now()
	err := op()
	if s.metrics != nil {
		s.metrics.Histogram(metrics.WithLabels("rag_operation_duration_seconds", "feature", feature), "RAG operation duration by feature", nil).Since(start)
		if err != nil {
			s.metrics.Counter(metrics.WithLabels("rag_operation_errors_total", "feature", feature), "RAG operations that returned an error by feature").Inc()
		} else {
			s.metrics.Counter(metrics.WithLabels("rag_operations_total", "feature", feature), "RAG operations completed successfully by feature").Inc()
		}
	}
	return err
}

func (s *Service) loadResume(ctx context.Context, uid string) (domain.Resume, error) {
	r, ok, err := s.Graph.GetResume(ctx, uid)
	if err != nil {
		return domain.Resume{}, err
	}
	if !ok {
		return domain.Resume{}, domain.NewNotFound("rag.loadResume", uid)
	}
	return r, nil
}

// matchContext retrieves up to matchContextK vector points belonging to
// uid whose text best matches jobDescription, giving the LLM chunk-level
// evidence beyond the structured resume fields.
func (s *Service) matchContext(ctx context.Context, uid, jobDescription string) ([]vector.SearchHit, error) {
	if s.Vectors == nil || s.Embedder == nil {
		return nil, nil
	}
	vec, err := s.Embedder.Encode(ctx, jobDescription)
	if err != nil {
		return nil, err
	}
	return s.Vectors.SearchFiltered(ctx, vec, matchContextK, 0, &vector.Filter{Keyword: map[string]string{"uid": uid}})
}

// ExplainMatch scores how well a resume fits a job description.
func (s *Service) ExplainMatch(ctx context.Context, uid, jobDescription string) (JobMatchExplanation, error) {
	var result JobMatchExplanation
	err := s.observe("explain_match", func() error {
		resume, err := s.loadResume(ctx, uid)
		if err != nil {
			return err
		}
		hits, err := s.matchContext(ctx, uid, jobDescription)
		if err != nil {
			return err
		}

		prompt, err := buildExplainMatchPrompt(resume, jobDescription, hits)
		if err != nil {
			return fmt.Errorf("rag: build explain match prompt: %w", err)
		}
		return llm.Run(ctx, s.LLM, explainMatchSystemPrompt, prompt, s.matchSchema, llm.Options{Temperature: explainTemperature}, &result)
	})
	return result, err
}

// CompareCandidates ranks 2-5 candidates against each other and, when
// jobContext is non-empty, against a job description.
func (s *Service) CompareCandidates(ctx context.Context, uids []string, criteria []string, jobContext string) (CandidateComparison, error) {
	var result CandidateComparison
	err := s.observe("compare_candidates", func() error {
		if len(uids) < 2 || len(uids) > 5 {
			return domain.NewValidationError("rag.CompareCandidates", "uids", fmt.Errorf("expected 2-5 uids, got %d", len(uids)))
		}
		resumes := make([]domain.Resume, 0, len(uids))
		for _, uid := range uids {
			r, err := s.loadResume(ctx, uid)
			if err != nil {
				return err
			}
			resumes = append(resumes, r)
		}

		prompt, err := buildComparisonPrompt(resumes, criteria, jobContext)
		if err != nil {
			return fmt.Errorf("rag: build comparison prompt: %w", err)
		}
		if err := llm.Run(ctx, s.LLM, compareCandidatesSystemPrompt, prompt, s.comparisonSchema, llm.Options{Temperature: compareTemperature}, &result); err != nil {
			return err
		}
		result.RankedUIDs = rankByOverallScore(result.OverallScores, uids)
		return nil
	})
	return result, err
}

// GenerateInterviewQuestions builds a question set tailored to a single
// candidate's resume.
func (s *Service) GenerateInterviewQuestions(ctx context.Context, uid string, interviewType InterviewType, roleContext string, focusAreas []string) (InterviewQuestionSet, error) {
	var result InterviewQuestionSet
	err := s.observe("generate_interview_questions", func() error {
		resume, err := s.loadResume(ctx, uid)
		if err != nil {
			return err
		}
		prompt, err := buildInterviewPrompt(resume, interviewType, roleContext, focusAreas)
		if err != nil {
			return fmt.Errorf("rag: build interview prompt: %w", err)
		}
		return llm.Run(ctx, s.LLM, interviewQuestionsSystemPrompt, prompt, s.interviewSchema, llm.Options{Temperature: interviewTemperature}, &result)
	})
	return result, err
}

// rankByOverallScore orders uids by result.OverallScores descending,
// falling back to the request order for any uid the model omitted a
// score for (treated as 0).
func rankByOverallScore(overall map[string]float64, uids []string) []string {
	ranked := make([]string, len(uids))
	copy(ranked, uids)
	sort.SliceStable(ranked, func(i, j int) bool {
		return overall[ranked[i]] > overall[ranked[j]]
	})
	return ranked
}

func marshalResumeContext(r domain.Resume) (string, error) {
	data, err := json.Marshal(map[string]any{
		"uid":                r.UID,
		"personal_info":      r.PersonalInfo,
		"profile":            r.Profile,
		"skills":             r.Skills,
		"employment_history": r.EmploymentHistory,
		"projects":           r.Projects,
		"education":          r.Education,
		"languages":          r.Languages,
		"years_experience":   r.YearsOfExperience(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatMatchContext(hits []vector.SearchHit) string {
	if len(hits) == 0 {
		return "(no additional chunk-level matches)"
	}
	var b strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&b, "- [%s, score %.3f] %s\n", h.Source, h.Score, h.Text)
	}
	return b.String()
}

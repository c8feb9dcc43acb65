// Command api exposes the HTTP surface over the ingestion queue, search
// coordinator, and RAG service: resume upload, job status, search, and
// recruiter-facing RAG endpoints.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/embed"
	"github.com/resumariner/engine/engine/extract"
	"github.com/resumariner/engine/engine/graph"
	"github.com/resumariner/engine/engine/llm"
	"github.com/resumariner/engine/engine/queue"
	"github.com/resumariner/engine/engine/rag"
	"github.com/resumariner/engine/engine/search"
	"github.com/resumariner/engine/engine/vector"
	"github.com/resumariner/engine/pkg/metrics"
	"github.com/resumariner/engine/pkg/mid"
)

var met = metrics.New()

const vectorDims = embed.VectorSize

// Config holds all environment-based configuration.
type Config struct {
	Port         string
	UploadDir    string
	RedisAddr    string
	Neo4jURL     string
	Neo4jUser    string
	Neo4jPass    string
	QdrantAddr   string
	Collection   string
	LLMURL       string
	LLMKey       string
	LLMModel     string
	EmbedURL     string
	EmbedKey     string
	EmbedModel   string
	CORSOrigin   string
	JobRetention time.Duration
}

func loadConfig() Config {
	retention := 30 * 24 * time.Hour
	if v := os.Getenv("JOB_RETENTION_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			retention = time.Duration(hours) * time.Hour
		}
	}
	return Config{
		Port:         envOr("PORT", "8080"),
		UploadDir:    envOr("UPLOAD_DIR", "/tmp/resumariner-uploads"),
		RedisAddr:    envOr("REDIS_ADDR", "localhost:6379"),
		Neo4jURL:     envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:    envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:    envOr("NEO4J_PASS", "password"),
		QdrantAddr:   envOr("QDRANT_ADDR", "localhost:6334"),
		Collection:   envOr("QDRANT_COLLECTION", "resumes"),
		LLMURL:       envOr("LLM_URL", "http://localhost:11434"),
		LLMKey:       envOr("LLM_API_KEY", ""),
		LLMModel:     envOr("LLM_MODEL", "gpt-4o-mini"),
		EmbedURL:     envOr("EMBED_URL", "http://localhost:11434"),
		EmbedKey:     envOr("EMBED_API_KEY", ""),
		EmbedModel:   envOr("EMBED_MODEL", "text-embedding-3-small"),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
		JobRetention: retention,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("mkdir upload dir: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)
	graphStore := graph.New(driver)

	vectorStore, err := vector.New(cfg.QdrantAddr, cfg.Collection, vectorDims, met)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder := embed.New(cfg.EmbedURL, cfg.EmbedKey, cfg.EmbedModel)
	llmClient := llm.New(cfg.LLMURL, cfg.LLMKey, cfg.LLMModel)

	q := queue.New(rdb)
	jobs := queue.NewJobStore(rdb, cfg.JobRetention)
	coordinator := search.New(embedder, vectorStore, graphStore, met)
	ragSvc, err := rag.New(llmClient, graphStore, vectorStore, embedder, met)
	if err != nil {
		return fmt.Errorf("rag service: %w", err)
	}
	extractor := extract.New(nil)

	srv := &server{
		cfg: cfg, logger: logger,
		queue: q, jobs: jobs, extractor: extractor,
		search: coordinator, rag: ragSvc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", handleHealth)
	mux.HandleFunc("POST /api/v1/resumes", srv.handleUpload)
	mux.HandleFunc("GET /api/v1/jobs/{id}", srv.handleJobStatus)
	mux.HandleFunc("GET /api/v1/jobs", srv.handleListJobs)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", srv.handleDeleteJob)
	mux.HandleFunc("POST /api/v1/search/semantic", srv.handleSemanticSearch)
	mux.HandleFunc("POST /api/v1/search/structured", srv.handleStructuredSearch)
	mux.HandleFunc("POST /api/v1/search/hybrid", srv.handleHybridSearch)
	mux.HandleFunc("GET /api/v1/search/filters", srv.handleFilterOptions)
	mux.HandleFunc("POST /api/v1/rag/explain-match", srv.handleExplainMatch)
	mux.HandleFunc("POST /api/v1/rag/compare-candidates", srv.handleCompareCandidates)
	mux.HandleFunc("POST /api/v1/rag/interview-questions", srv.handleInterviewQuestions)

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

type server struct {
	cfg       Config
	logger    *slog.Logger
	queue     *queue.Queue
	jobs      *queue.JobStore
	extractor *extract.DocumentExtractor
	search    *search.Coordinator
	rag       *rag.Service
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a TaxonomyError to its HTTP status and sanitized body,
// falling back to 500 for anything else (spec §7's error propagation
// policy: never leak the underlying cause to an HTTP caller).
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var taxErr *domain.TaxonomyError
	if ok := asTaxonomyError(err, &taxErr); ok {
		logger.Error("request failed", "error", err)
		writeJSON(w, statusForKind(taxErr), map[string]string{"error": taxErr.Sanitized()})
		return
	}
	logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func asTaxonomyError(err error, target **domain.TaxonomyError) bool {
	for err != nil {
		if te, ok := err.(*domain.TaxonomyError); ok {
			*target = te
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func statusForKind(e *domain.TaxonomyError) int {
	switch {
	case isKind(e, domain.ErrValidation):
		return http.StatusBadRequest
	case isKind(e, domain.ErrNotFound):
		return http.StatusNotFound
	case isKind(e, domain.ErrStoreUnavailable), isKind(e, domain.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case isKind(e, domain.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isKind(e *domain.TaxonomyError, kind error) bool {
	return e.Kind == kind
}

// handleUpload accepts a multipart file, validates it, writes it to the
// upload directory, and enqueues an ingestion job.
func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(extract.DefaultSizeLimits().PDFMaxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	content := make([]byte, 0, header.Size)
	buf := make([]byte, 32*1024)
	for {
		n, rerr := file.Read(buf)
		content = append(content, buf[:n]...)
		if rerr != nil {
			break
		}
	}

	if err := extract.ValidateFilename(header.Filename); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := extract.ValidateContent(content); err != nil {
		writeError(w, s.logger, err)
		return
	}

	reviewRequested := r.FormValue("review") == "true"

	jobID := uuid.NewString()
	destPath := filepath.Join(s.cfg.UploadDir, jobID+filepath.Ext(header.Filename))
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		writeError(w, s.logger, fmt.Errorf("write upload: %w", err))
		return
	}

	if _, err := s.jobs.Create(r.Context(), jobID, destPath, reviewRequested); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if _, err := s.queue.Enqueue(r.Context(), jobID, destPath); err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID, "status": "pending"})
}

func (s *server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	jobs, err := s.jobs.List(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := s.jobs.Delete(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Search handlers ---

type semanticSearchRequest struct {
	Query    string                `json:"query"`
	Filters  domain.SearchFilters  `json:"filters"`
	Limit    int                   `json:"limit"`
	MinScore float32               `json:"min_score"`
	Enrich   bool                  `json:"enrich"`
}

func (s *server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	resp, err := s.search.Semantic(r.Context(), req.Query, search.SemanticOptions{
		Filters: req.Filters, Limit: req.Limit, MinScore: req.MinScore, Enrich: req.Enrich,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type structuredSearchRequest struct {
	Filters domain.SearchFilters `json:"filters"`
	Limit   int                  `json:"limit"`
}

func (s *server) handleStructuredSearch(w http.ResponseWriter, r *http.Request) {
	var req structuredSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	resp, err := s.search.Structured(r.Context(), req.Filters, req.Limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type hybridSearchRequest struct {
	Query   string                `json:"query"`
	Filters domain.SearchFilters  `json:"filters"`
	Weights search.Weights        `json:"weights"`
	Limit   int                   `json:"limit"`
}

func (s *server) handleHybridSearch(w http.ResponseWriter, r *http.Request) {
	var req hybridSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	resp, err := s.search.Hybrid(r.Context(), req.Query, req.Filters, req.Weights, req.Limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.search.FilterOptions(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// --- RAG handlers ---

type explainMatchRequest struct {
	UID            string `json:"uid"`
	JobDescription string `json:"job_description"`
}

func (s *server) handleExplainMatch(w http.ResponseWriter, r *http.Request) {
	var req explainMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := s.rag.ExplainMatch(r.Context(), req.UID, req.JobDescription)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type compareCandidatesRequest struct {
	UIDs       []string `json:"uids"`
	Criteria   []string `json:"criteria"`
	JobContext string   `json:"job_context"`
}

func (s *server) handleCompareCandidates(w http.ResponseWriter, r *http.Request) {
	var req compareCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := s.rag.CompareCandidates(r.Context(), req.UIDs, req.Criteria, req.JobContext)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type interviewQuestionsRequest struct {
	UID           string            `json:"uid"`
	InterviewType rag.InterviewType `json:"interview_type"`
	RoleContext   string            `json:"role_context"`
	FocusAreas    []string          `json:"focus_areas"`
}

func (s *server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	var req interviewQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.InterviewType == "" {
		req.InterviewType = rag.InterviewGeneral
	}
	result, err := s.rag.GenerateInterviewQuestions(r.Context(), req.UID, req.InterviewType, req.RoleContext, req.FocusAreas)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Command worker runs the ingestion loop (spec §4.J): it dequeues
// uploaded resumes, extracts, structures, embeds, persists to the graph
// and vector stores, and optionally runs the Reviewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"

	"github.com/resumariner/engine/engine/embed"
	"github.com/resumariner/engine/engine/extract"
	"github.com/resumariner/engine/engine/graph"
	"github.com/resumariner/engine/engine/ingest"
	"github.com/resumariner/engine/engine/llm"
	"github.com/resumariner/engine/engine/queue"
	"github.com/resumariner/engine/engine/review"
	"github.com/resumariner/engine/engine/structure"
	"github.com/resumariner/engine/engine/vector"
	"github.com/resumariner/engine/pkg/metrics"
)

var met = metrics.New()

const vectorDims = embed.VectorSize

func main() {
	var (
		redisAddr   = flag.String("redis", envOr("REDIS_ADDR", "localhost:6379"), "Redis address")
		neo4jURL    = flag.String("neo4j", envOr("NEO4J_URL", "neo4j://localhost:7687"), "Neo4j bolt URL")
		neo4jUser   = flag.String("neo4j-user", envOr("NEO4J_USER", "neo4j"), "Neo4j username")
		neo4jPass   = flag.String("neo4j-pass", envOr("NEO4J_PASS", "password"), "Neo4j password")
		qdrantAddr  = flag.String("qdrant", envOr("QDRANT_ADDR", "localhost:6334"), "Qdrant gRPC address")
		collection  = flag.String("collection", envOr("QDRANT_COLLECTION", "resumes"), "Qdrant collection name")
		llmURL      = flag.String("llm", envOr("LLM_URL", "http://localhost:11434"), "LLM API base URL")
		llmKey      = flag.String("llm-key", envOr("LLM_API_KEY", ""), "LLM API key")
		llmModel    = flag.String("llm-model", envOr("LLM_MODEL", "gpt-4o-mini"), "LLM model name")
		embedURL    = flag.String("embed", envOr("EMBED_URL", "http://localhost:11434"), "Embedding API base URL")
		embedKey    = flag.String("embed-key", envOr("EMBED_API_KEY", ""), "Embedding API key")
		embedModel  = flag.String("embed-model", envOr("EMBED_MODEL", "text-embedding-3-small"), "Embedding model name")
		jobRetention = flag.Duration("job-retention", 30*24*time.Hour, "job record TTL")
		metricsPort = flag.Int("metrics-port", 9092, "metrics server port")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	met.ServeAsync(*metricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, config{
		redisAddr: *redisAddr,
		neo4jURL: *neo4jURL, neo4jUser: *neo4jUser, neo4jPass: *neo4jPass,
		qdrantAddr: *qdrantAddr, collection: *collection,
		llmURL: *llmURL, llmKey: *llmKey, llmModel: *llmModel,
		embedURL: *embedURL, embedKey: *embedKey, embedModel: *embedModel,
		jobRetention: *jobRetention,
	}); err != nil {
		logger.Error("worker exited with error", "error", err)
		os.Exit(1)
	}
}

type config struct {
	redisAddr                          string
	neo4jURL, neo4jUser, neo4jPass      string
	qdrantAddr, collection              string
	llmURL, llmKey, llmModel            string
	embedURL, embedKey, embedModel      string
	jobRetention                        time.Duration
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, logger *slog.Logger, cfg config) error {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	driver, err := neo4j.NewDriverWithContext(cfg.neo4jURL, neo4j.BasicAuth(cfg.neo4jUser, cfg.neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j verify: %w", err)
	}
	graphStore := graph.New(driver)

	vectorStore, err := vector.New(cfg.qdrantAddr, cfg.collection, vectorDims, met)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	embedder := embed.New(cfg.embedURL, cfg.embedKey, cfg.embedModel)
	llmClient := llm.New(cfg.llmURL, cfg.llmKey, cfg.llmModel)

	structurer, err := structure.New(llmClient)
	if err != nil {
		return fmt.Errorf("structurer: %w", err)
	}
	reviewer, err := review.New(llmClient)
	if err != nil {
		return fmt.Errorf("reviewer: %w", err)
	}

	q := queue.New(rdb)
	jobs := queue.NewJobStore(rdb, cfg.jobRetention)

	w := ingest.New(ingest.Deps{
		Queue:      q,
		Jobs:       jobs,
		Extractor:  extract.New(nil),
		Structurer: structurer,
		Embedder:   embedder,
		Graph:      graphStore,
		Vectors:    vectorStore,
		Reviewer:   reviewer,
		Logger:     logger,
		Metrics:    met,
	})

	logger.Info("ingestion worker starting", "redis", cfg.redisAddr, "neo4j", cfg.neo4jURL, "qdrant", cfg.qdrantAddr)
	return w.Run(ctx)
}

// Package ingest implements the Ingestion Worker (spec §4.J): the
// queue-driven loop that carries a job from its uploaded file through
// extraction, structuring, embedding, graph/vector persistence, and an
// optional review.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/embed"
	"github.com/resumariner/engine/engine/extract"
	"github.com/resumariner/engine/engine/graph"
	"github.com/resumariner/engine/engine/queue"
	"github.com/resumariner/engine/engine/review"
	"github.com/resumariner/engine/engine/structure"
	"github.com/resumariner/engine/engine/vector"
	"github.com/resumariner/engine/pkg/metrics"
)

// DequeueTimeout bounds each blocking pop against the queue (spec §4.J).
const DequeueTimeout = 30 * time.Second

// FileReader loads the raw bytes of an uploaded file by path. The default
// Worker wiring reads from the local filesystem; callers backed by object
// storage provide their own implementation.
type FileReader interface {
	Read(path string) ([]byte, error)
}

// LocalFileReader reads files from the local filesystem.
type LocalFileReader struct{}

func (LocalFileReader) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Deps holds every collaborator the worker orchestrates.
type Deps struct {
	Queue      *queue.Queue
	Jobs       *queue.JobStore
	Files      FileReader
	Extractor  *extract.DocumentExtractor
	Structurer *structure.Structurer
	Embedder   *embed.Client
	Graph      *graph.GraphStore
	Vectors    *vector.Store
	Reviewer   *review.Reviewer
	Logger     *slog.Logger
	Metrics    *metrics.Registry
}

// Worker runs the ingestion loop described in spec §4.J.
type Worker struct {
	deps          Deps
	log           *slog.Logger
	processed     *metrics.Counter
	failed        *metrics.Counter
	stageDuration *metrics.Histogram
}

// New builds a Worker. deps.Logger may be nil (defaults to slog.Default());
// deps.Metrics may be nil (metrics become no-ops).
func New(deps Deps) *Worker {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if deps.Files == nil {
		deps.Files = LocalFileReader{}
	}
	w := &Worker{deps: deps, log: log}
	if deps.Metrics != nil {
		w.processed = deps.Metrics.Counter("resume_ingest_jobs_total", "ingestion jobs completed successfully")
		w.failed = deps.Metrics.Counter("resume_ingest_jobs_failed_total", "ingestion jobs that ended in a terminal failure")
		w.stageDuration = deps.Metrics.Histogram("resume_ingest_job_duration_seconds", "end-to-end ingestion job duration", nil)
	}
	return w
}

// Run drives the loop described in spec §4.J until ctx is cancelled: move
// due retries back onto the main queue, then block for up to
// DequeueTimeout waiting for a task. The current task always finishes (or
// requeues) before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if n, err := w.deps.Queue.ProcessRetries(ctx); err != nil {
			w.log.Error("ingest: process retries", "error", err)
		} else if n > 0 {
			w.log.Info("ingest: retries requeued", "count", n)
		}

		task, err := w.deps.Queue.Dequeue(ctx, DequeueTimeout)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			w.log.Error("ingest: dequeue", "error", err)
			continue
		}
		if task == nil {
			continue
		}

		w.handleTask(ctx, task)
	}
}

func (w *Worker) handleTask(ctx context.Context, task *queue.Task) {
	start := time.Now()
	log := w.log.With("job_id", task.JobID, "task_id", task.TaskID, "attempt", task.Attempts)

	if err := w.deps.Queue.MarkProcessing(ctx, task.TaskID); err != nil {
		log.Error("ingest: mark processing", "error", err)
	}

	statusProcessing := domain.JobProcessing
	if _, err := w.deps.Jobs.Update(ctx, task.JobID, queue.JobPatch{Status: &statusProcessing}); err != nil {
		log.Error("ingest: job -> processing", "error", err)
	}

	job, ok, err := w.deps.Jobs.Get(ctx, task.JobID)
	if err != nil {
		log.Error("ingest: load job record", "error", err)
	}
	reviewRequested := ok && job.ReviewRequested

	result, procErr := w.process(ctx, log, task, reviewRequested)
	if w.stageDuration != nil {
		w.stageDuration.Since(start)
	}

	if procErr != nil {
		w.finishFailed(ctx, log, task, procErr)
		return
	}
	w.finishCompleted(ctx, log, task, result)
}

func (w *Worker) finishCompleted(ctx context.Context, log *slog.Logger, task *queue.Task, result Result) {
	if err := w.deps.Queue.MarkCompleted(ctx, task.TaskID); err != nil {
		log.Error("ingest: mark completed", "error", err)
	}

	payload, err := result.MarshalJSON()
	if err != nil {
		log.Error("ingest: marshal result", "error", err)
		payload = []byte(`{}`)
	}
	resultStr := string(payload)
	status := domain.JobCompleted
	if _, err := w.deps.Jobs.Update(ctx, task.JobID, queue.JobPatch{Status: &status, Result: &resultStr}); err != nil {
		log.Error("ingest: job -> completed", "error", err)
	}
	if w.processed != nil {
		w.processed.Inc()
	}
	log.Info("ingest: job completed", "uid", result.Resume.UID)
}

func (w *Worker) finishFailed(ctx context.Context, log *slog.Logger, task *queue.Task, procErr error) {
	retry := true
	var taxErr *domain.TaxonomyError
	sanitized := "processing_error"
	if errors.As(procErr, &taxErr) {
		retry = taxErr.Retryable()
		sanitized = taxErr.Sanitized()
	}
	log.Error("ingest: task failed", "error", procErr, "retry", retry)

	attemptsBefore := task.Attempts
	if err := w.deps.Queue.MarkFailed(ctx, task, retry); err != nil {
		log.Error("ingest: mark failed", "error", err)
	}

	if retry && task.Attempts > attemptsBefore {
		// Requeued; the job stays in processing until a future attempt
		// reaches a terminal state.
		return
	}

	status := domain.JobFailed
	errStr := sanitized
	if _, err := w.deps.Jobs.Update(ctx, task.JobID, queue.JobPatch{Status: &status, Error: &errStr}); err != nil {
		log.Error("ingest: job -> failed", "error", err)
	}
	if w.failed != nil {
		w.failed.Inc()
	}
}

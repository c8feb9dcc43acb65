package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/queue"
	"github.com/resumariner/engine/engine/structure"
)

// process runs one task through extraction, structuring, graph/vector
// persistence, and an optional review, per the loop in spec §4.J. The
// returned error, when non-nil, is a *domain.TaxonomyError from whichever
// step failed, carrying that step's retry policy.
func (w *Worker) process(ctx context.Context, log *slog.Logger, task *queue.Task, reviewRequested bool) (Result, error) {
	content, err := w.deps.Files.Read(task.FilePath)
	if err != nil {
		return Result{}, domain.NewParseError("ingest.process.read", task.FilePath, err)
	}

	doc, err := w.deps.Extractor.Parse(task.FilePath, content)
	if err != nil {
		return Result{}, err
	}
	log.Info("ingest: extracted", "pages", len(doc.Pages))

	resume, err := w.deps.Structurer.Structure(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	// UpsertResume resolves the uid (reusing an existing resume's uid when
	// its email matches) and materializes the graph aggregate; embedding
	// points are tagged with the uid it returns.
	resume, err = w.deps.Graph.UpsertResume(ctx, resume)
	if err != nil {
		return Result{}, err
	}
	log.Info("ingest: graph upserted", "uid", resume.UID)

	points := buildEmbeddingPoints(resume)
	texts := make([]string, len(points))
	for i, p := range points {
		texts[i] = p.Text
	}
	vectors, err := w.deps.Embedder.EncodeBatch(ctx, texts)
	if err != nil {
		return Result{}, err
	}
	if len(vectors) != len(points) {
		return Result{}, domain.NewValidationError("ingest.process.embed", resume.UID,
			fmt.Errorf("embedding count %d does not match embedding text count %d", len(vectors), len(points)))
	}
	for i := range points {
		points[i].UID = resume.UID
		points[i].Vector = vectors[i]
	}

	if _, err := w.deps.Vectors.StoreVectors(ctx, resume.UID, points); err != nil {
		return Result{}, err
	}
	log.Info("ingest: vectors stored", "uid", resume.UID, "count", len(points))

	result := Result{Resume: resume}

	if reviewRequested && w.deps.Reviewer != nil {
		fullText := structure.FullText(doc)
		rev, err := w.deps.Reviewer.Review(ctx, resume, fullText)
		if err != nil {
			log.Warn("ingest: review failed, recording in metadata", "error", err)
			var taxErr *domain.TaxonomyError
			if errors.As(err, &taxErr) {
				result.ReviewError = taxErr.Sanitized()
			} else {
				result.ReviewError = "processing_error"
			}
		} else {
			result.Review = &rev
		}
	}

	return result, nil
}

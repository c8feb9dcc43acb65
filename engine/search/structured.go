package search

import (
	"context"
	"time"

	"github.com/resumariner/engine/engine/domain"
)

// Structured implements the Structured search mode (spec §4.K): the
// graph store's own Cypher translation of SearchFilters, ordered by
// created_at descending then uid. Every match scores 1.0 — there is no
// ranking at the graph level.
func (c *Coordinator) Structured(ctx context.Context, filters domain.SearchFilters, limit int) (Response, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 10
	}

	resumes, err := c.Graph.SearchResumes(ctx, filters, limit)
	if err != nil {
		c.observeError(err)
		return Response{}, err
	}

	results := make([]Result, len(resumes))
	for i, r := range resumes {
		res := Result{UID: r.UID, Score: 1.0}
		hydrateFromResume(&res, r)
		results[i] = res
	}

	c.observeDuration(start)
	return Response{
		Results:       results,
		Total:         len(results),
		Query:         "Structured search",
		SearchType:    "structured",
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

package search

import (
	"context"
	"sort"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/fn"
)

// Hybrid implements the Hybrid search mode (spec §4.K): semantic and
// structured run concurrently at limit*2 each; scores fuse via
// combined = min(v_cv*w_v + g_cv*w_g, 1.0), where v_cv is the vector
// score (0 if absent from the vector results) and g_cv is 1 if the
// resume appears in the structured results, else 0. Results group
// both-set first, then vector-only, then structured-only, each group
// sorted by combined descending, then concatenate and truncate.
func (c *Coordinator) Hybrid(ctx context.Context, query string, filters domain.SearchFilters, weights Weights, limit int) (Response, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 10
	}
	weights = weights.Normalize()
	fanoutLimit := limit * 2

	outcomes := fn.FanOutResult(
		func() fn.Result[Response] {
			r, err := c.Semantic(ctx, query, SemanticOptions{Filters: filters, Limit: fanoutLimit})
			if err != nil {
				return fn.Err[Response](err)
			}
			return fn.Ok(r)
		},
		func() fn.Result[Response] {
			r, err := c.Structured(ctx, filters, fanoutLimit)
			if err != nil {
				return fn.Err[Response](err)
			}
			return fn.Ok(r)
		},
	)
	results, err := outcomes.Unwrap()
	if err != nil {
		c.observeError(err)
		return Response{}, err
	}
	semanticResp, structuredResp := results[0], results[1]

	combined := combineResults(semanticResp.Results, structuredResp.Results, weights, limit)

	c.observeDuration(start)
	return Response{
		Results:       combined,
		Total:         len(combined),
		Query:         query,
		SearchType:    "hybrid",
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

func combineResults(vectorResults, structuredResults []Result, w Weights, limit int) []Result {
	byUID := map[string]*Result{}
	inVector := map[string]bool{}
	inStructured := map[string]bool{}
	combinedScore := map[string]float64{}
	var order []string

	touch := func(uid string, r Result) *Result {
		existing, ok := byUID[uid]
		if !ok {
			copyOf := r
			byUID[uid] = &copyOf
			order = append(order, uid)
			return byUID[uid]
		}
		return existing
	}

	for _, r := range vectorResults {
		touch(r.UID, r)
		inVector[r.UID] = true
		combinedScore[r.UID] += r.Score * w.Vector
	}
	for _, r := range structuredResults {
		dst := touch(r.UID, r)
		inStructured[r.UID] = true
		combinedScore[r.UID] += w.Graph
		// Structured results carry graph-hydrated fields (summary,
		// skills, companies, role, location) that vector-only payload
		// metadata doesn't; prefer them when both are present.
		if dst.Summary == "" {
			dst.Summary = r.Summary
		}
		if len(dst.Skills) == 0 {
			dst.Skills = r.Skills
		}
		if len(dst.Companies) == 0 {
			dst.Companies = r.Companies
		}
		if dst.Resume == nil {
			dst.Resume = r.Resume
		}
	}

	var both, vectorOnly, structuredOnly []string
	for _, uid := range order {
		switch {
		case inVector[uid] && inStructured[uid]:
			both = append(both, uid)
		case inVector[uid]:
			vectorOnly = append(vectorOnly, uid)
		default:
			structuredOnly = append(structuredOnly, uid)
		}
	}

	rank := func(group []string) {
		sort.Slice(group, func(i, j int) bool { return combinedScore[group[i]] > combinedScore[group[j]] })
	}
	rank(both)
	rank(vectorOnly)
	rank(structuredOnly)

	final := make([]Result, 0, limit)
	for _, group := range [][]string{both, vectorOnly, structuredOnly} {
		for _, uid := range group {
			if len(final) >= limit {
				return final
			}
			r := *byUID[uid]
			r.Score = minFloat(combinedScore[uid], 1.0)
			final = append(final, r)
		}
	}
	return final
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

package search

import (
	"context"
	"sort"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/vector"
)

// SemanticOptions configures a semantic search call.
type SemanticOptions struct {
	Filters  domain.SearchFilters
	Limit    int
	MinScore float32
	// Enrich loads each result's full resume via the graph store
	// (name/email/summary/skills/etc); without it, only the vector
	// payload's metadata is available.
	Enrich bool
}

// Semantic implements the Semantic search mode (spec §4.K): encode the
// query, run an ANN search, group hits by uid taking the max score per
// group, sort descending, and truncate to the requested limit.
func (c *Coordinator) Semantic(ctx context.Context, query string, opts SemanticOptions) (Response, error) {
	start := time.Now()

	vec, err := c.Embedder.Encode(ctx, query)
	if err != nil {
		c.observeError(err)
		return Response{}, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	hits, err := c.Vectors.SearchFiltered(ctx, vec, limit, opts.MinScore, vectorFilterFromSearchFilters(opts.Filters))
	if err != nil {
		c.observeError(err)
		return Response{}, err
	}

	results := groupSemanticHits(hits, c.maxMatches())
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}

	if opts.Enrich && c.Graph != nil && len(results) > 0 {
		uids := make([]string, len(results))
		for i, r := range results {
			uids[i] = r.UID
		}
		resumes, err := c.Graph.GetResumesByIds(ctx, uids)
		if err != nil {
			c.observeError(err)
			return Response{}, err
		}
		for i := range results {
			if r, ok := resumes[results[i].UID]; ok {
				hydrateFromResume(&results[i], r)
			}
		}
	}

	c.observeDuration(start)
	return Response{
		Results:       results,
		Total:         len(results),
		Query:         query,
		SearchType:    "semantic",
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

// groupSemanticHits groups vector hits by uid, keeping the payload of the
// first hit seen per uid for name/email/metadata, scoring each group by
// the max hit score, and capping kept matches at maxMatches (sorted
// descending).
func groupSemanticHits(hits []vector.SearchHit, maxMatches int) []Result {
	order := make([]string, 0)
	byUID := map[string]*Result{}

	for _, h := range hits {
		r, ok := byUID[h.UID]
		if !ok {
			r = &Result{
				UID:             h.UID,
				PersonName:      h.Name,
				Email:           h.Email,
				Skills:          h.Skills,
				Companies:       h.Companies,
				Role:            h.Role,
				Location:        h.Location,
				YearsExperience: float64(h.YearsExperience),
			}
			byUID[h.UID] = r
			order = append(order, h.UID)
		}
		r.Matches = append(r.Matches, Match{Text: h.Text, Score: float64(h.Score), Source: h.Source, Context: h.Context})
		if float64(h.Score) > r.Score {
			r.Score = float64(h.Score)
		}
	}

	results := make([]Result, len(order))
	for i, uid := range order {
		r := byUID[uid]
		sort.Slice(r.Matches, func(i, j int) bool { return r.Matches[i].Score > r.Matches[j].Score })
		if len(r.Matches) > maxMatches {
			r.Matches = r.Matches[:maxMatches]
		}
		results[i] = *r
	}
	return results
}

// vectorFilterFromSearchFilters translates the single-valued fields of
// SearchFilters into a vector.Filter. Only role/company/the sole skill
// (when exactly one is requested) map cleanly onto the vector store's
// one-value-per-field keyword filter; a multi-skill AND constraint is
// left to the structured/hybrid modes' graph-side filtering.
func vectorFilterFromSearchFilters(f domain.SearchFilters) *vector.Filter {
	kw := map[string]string{}
	if f.Role != "" {
		kw["role"] = f.Role
	}
	if f.Company != "" {
		kw["companies"] = f.Company
	}
	if len(f.Skills) == 1 {
		kw["skills"] = f.Skills[0]
	}
	var minYears *int
	if f.YearsExperience > 0 {
		y := f.YearsExperience
		minYears = &y
	}
	if len(kw) == 0 && minYears == nil {
		return nil
	}
	return &vector.Filter{Keyword: kw, MinYearsExperience: minYears}
}

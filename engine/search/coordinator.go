package search

import (
	"context"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/engine/embed"
	"github.com/resumariner/engine/engine/graph"
	"github.com/resumariner/engine/engine/vector"
	"github.com/resumariner/engine/pkg/metrics"
)

// Coordinator fans a query out to the embedding client, vector store, and
// graph store per spec §4.K's three modes.
type Coordinator struct {
	Embedder *embed.Client
	Vectors  *vector.Store
	Graph    *graph.GraphStore

	// MaxMatchesPerResult caps matches kept per resume in semantic/hybrid
	// results. Zero means DefaultMaxMatchesPerResult.
	MaxMatchesPerResult int

	duration *metrics.Histogram
	errors   *metrics.Counter
}

// New builds a Coordinator. reg may be nil.
func New(embedder *embed.Client, vectors *vector.Store, g *graph.GraphStore, reg *metrics.Registry) *Coordinator {
	c := &Coordinator{Embedder: embedder, Vectors: vectors, Graph: g}
	if reg != nil {
		c.duration = reg.Histogram("resume_search_duration_seconds", "search coordinator query duration", nil)
		c.errors = reg.Counter("resume_search_errors_total", "search coordinator queries that returned an error")
	}
	return c
}

func (c *Coordinator) maxMatches() int {
	if c.MaxMatchesPerResult > 0 {
		return c.MaxMatchesPerResult
	}
	return DefaultMaxMatchesPerResult
}

func (c *Coordinator) observeError(err error) {
	if err != nil && c.errors != nil {
		c.errors.Inc()
	}
}

func (c *Coordinator) observeDuration(start time.Time) {
	if c.duration != nil {
		c.duration.Since(start)
	}
}

func hydrateFromResume(res *Result, r domain.Resume) {
	res.PersonName = r.PersonalInfo.Name
	res.Email = r.PersonalInfo.Contact.Email
	res.Summary = r.Profile.Summary
	res.Role = r.Profile.Preferences.Role
	for _, s := range r.Skills {
		res.Skills = append(res.Skills, s.Name)
	}
	months := 0
	for _, e := range r.EmploymentHistory {
		res.Companies = append(res.Companies, e.Company.Name)
		months += e.Duration.DurationMonths
	}
	res.YearsExperience = float64(months) / 12
	if r.PersonalInfo.Demographics != nil {
		loc := r.PersonalInfo.Demographics.Location
		switch {
		case loc.City != "" && loc.Country != "":
			res.Location = loc.City + ", " + loc.Country
		case loc.Country != "":
			res.Location = loc.Country
		case loc.City != "":
			res.Location = loc.City
		}
	}
	resume := r
	res.Resume = &resume
}

// FilterOptions returns the aggregated facet set for structured-search UIs.
func (c *Coordinator) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	opts, err := c.Graph.FilterOptions(ctx)
	c.observeError(err)
	return opts, err
}

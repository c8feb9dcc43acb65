// Package search implements the Search Coordinator (spec §4.K): semantic,
// structured, and hybrid query fan-in over the embedding client, vector
// store, and graph store, plus the filter-options facet endpoint.
package search

import "github.com/resumariner/engine/engine/domain"

// DefaultMaxMatchesPerResult caps how many individual text matches a
// semantic or hybrid result keeps per resume.
const DefaultMaxMatchesPerResult = 5

// Match is one matching text segment backing a Result's score.
type Match struct {
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Context string  `json:"context,omitempty"`
}

// Result is one ranked resume returned by any of the three search modes.
// Fields populated only by graph enrichment (Summary, Skills, ...) are
// left zero-valued when a mode doesn't hydrate them.
type Result struct {
	UID             string   `json:"uid"`
	PersonName      string   `json:"person_name"`
	Email           string   `json:"email"`
	Score           float64  `json:"score"`
	Matches         []Match  `json:"matches,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Companies       []string `json:"companies,omitempty"`
	Role            string   `json:"desired_role,omitempty"`
	Location        string   `json:"location,omitempty"`
	YearsExperience float64  `json:"years_experience,omitempty"`
	Resume          *domain.Resume `json:"resume,omitempty"`
}

// Response wraps a result set with the envelope fields every search mode
// returns (spec §4.K / the cv-search-service response shape it's grounded
// on).
type Response struct {
	Results       []Result `json:"results"`
	Total         int      `json:"total"`
	Query         string   `json:"query"`
	SearchType    string   `json:"search_type"`
	ExecutionTime float64  `json:"execution_time"`
}

// Weights controls hybrid fusion. Both fields must be in [0,1]; if both
// are zero, Normalize substitutes 0.5/0.5 (spec §4.K).
type Weights struct {
	Vector float64 `json:"vector"`
	Graph  float64 `json:"graph"`
}

// Normalize applies the hybrid weight defaulting rule.
func (w Weights) Normalize() Weights {
	if w.Vector == 0 && w.Graph == 0 {
		return Weights{Vector: 0.5, Graph: 0.5}
	}
	return w
}

// DefaultWeights are DEFAULT_VECTOR_WEIGHT/DEFAULT_GRAPH_WEIGHT (spec §6).
var DefaultWeights = Weights{Vector: 0.7, Graph: 0.3}

package domain

// SearchFilters narrows semantic, structured, and hybrid search (spec
// §4.K). Zero values mean "no constraint" for every field.
type SearchFilters struct {
	Skills          []string                `json:"skills,omitempty"`
	Role            string                  `json:"role,omitempty"`
	Company         string                  `json:"company,omitempty"`
	Locations       []LocationRequirement   `json:"locations,omitempty"`
	YearsExperience int                     `json:"years_experience,omitempty"`
	Education       []EducationRequirement  `json:"education,omitempty"`
	Languages       []LanguageRequirement   `json:"languages,omitempty"`
}

// LocationRequirement matches a country, and optionally narrows to one of
// a set of cities within it. Multiple entries are any-of (spec §4.K).
type LocationRequirement struct {
	Country string   `json:"country"`
	Cities  []string `json:"cities,omitempty"`
}

// EducationRequirement matches resumes with an education item at the
// given level (qualification), optionally restricted to one of the listed
// statuses.
type EducationRequirement struct {
	Level    string            `json:"level"`
	Statuses []EducationStatus `json:"statuses,omitempty"`
}

// LanguageRequirement matches resumes with a proficiency in Language at
// or above MinCEFR.
type LanguageRequirement struct {
	Language string    `json:"language"`
	MinCEFR  CEFRLevel `json:"min_cefr"`
}

var cefrRank = map[CEFRLevel]int{
	CEFR_A1: 1, CEFR_A2: 2, CEFR_B1: 3, CEFR_B2: 4,
	CEFR_C1: 5, CEFR_C2: 6, CEFRNative: 7,
}

// CEFRRank orders CEFR levels A1 < A2 < ... < C2 < Native. Unrecognised
// levels rank 0, sorting below every real level.
func CEFRRank(level CEFRLevel) int {
	return cefrRank[level]
}

// CEFRAtOrAbove returns every recognised CEFR level ranked at or above
// min, used to translate a min_cefr requirement into an exact-match set
// a store can query against.
func CEFRAtOrAbove(min CEFRLevel) []CEFRLevel {
	threshold := CEFRRank(min)
	var out []CEFRLevel
	for _, lvl := range []CEFRLevel{CEFR_A1, CEFR_A2, CEFR_B1, CEFR_B2, CEFR_C1, CEFR_C2, CEFRNative} {
		if cefrRank[lvl] >= threshold {
			out = append(out, lvl)
		}
	}
	return out
}

// FilterOption is one distinct value plus the number of resumes carrying
// it, used by the search coordinator's filter-options aggregation.
type FilterOption struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountryFilterOption nests city breakdowns under a country.
type CountryFilterOption struct {
	Country string         `json:"country"`
	Count   int            `json:"count"`
	Cities  []FilterOption `json:"cities,omitempty"`
}

// EducationFilterOption nests status breakdowns under an education level.
type EducationFilterOption struct {
	Level    string         `json:"level"`
	Count    int            `json:"count"`
	Statuses []FilterOption `json:"statuses,omitempty"`
}

// LanguageFilterOption nests CEFR-level breakdowns under a language.
type LanguageFilterOption struct {
	Language string         `json:"language"`
	Count    int            `json:"count"`
	CEFR     []FilterOption `json:"cefr_levels,omitempty"`
}

// FilterOptions is the aggregated facet set returned by the
// filter-options endpoint (spec §4.K).
type FilterOptions struct {
	Skills    []FilterOption          `json:"skills"`
	Roles     []FilterOption          `json:"roles"`
	Companies []FilterOption          `json:"companies"`
	Countries []CountryFilterOption   `json:"countries"`
	Education []EducationFilterOption `json:"education"`
	Languages []LanguageFilterOption  `json:"languages"`
}

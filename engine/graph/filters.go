package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/resumariner/engine/engine/domain"
)

// FilterOptions aggregates the distinct-value + resume-count facets the
// search coordinator's filter-options endpoint returns (spec §4.K):
// skills, roles, companies, countries (nested cities), education levels
// (nested statuses), languages (nested CEFR levels).
func (g *GraphStore) FilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	skills, err := g.countBy(ctx, sess,
		`MATCH (s:`+labelSkill+`)<-[:`+relHasSkill+`]-(r:`+labelResume+`) RETURN s.name AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	roles, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasProfessionalProfile+`]->(:`+labelProfessionalProfile+`)-[:`+relHasPreferences+`]->(pref:`+labelPreferences+`)
		 WHERE pref.role <> '' RETURN pref.role AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	companies, err := g.countBy(ctx, sess,
		`MATCH (c:`+labelCompany+`)<-[:`+relWorkedAt+`]-(:`+labelEmploymentItem+`)<-[:`+relHasEmploymentHistory+`]-(r:`+labelResume+`)
		 RETURN c.name AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	countries, err := g.countryFilterOptions(ctx, sess)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	education, err := g.educationFilterOptions(ctx, sess)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	languages, err := g.languageFilterOptions(ctx, sess)
	if err != nil {
		return domain.FilterOptions{}, err
	}

	return domain.FilterOptions{
		Skills:    skills,
		Roles:     roles,
		Companies: companies,
		Countries: countries,
		Education: education,
		Languages: languages,
	}, nil
}

func (g *GraphStore) countBy(ctx context.Context, sess neo4j.SessionWithContext, cypher string) ([]domain.FilterOption, error) {
	res, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, domain.NewStoreUnavailable("FilterOptions", "neo4j", err)
	}
	var out []domain.FilterOption
	for res.Next(ctx) {
		rec := res.Record()
		value, _, _ := neo4j.GetRecordValue[string](rec, "value")
		n, _, _ := neo4j.GetRecordValue[int64](rec, "n")
		out = append(out, domain.FilterOption{Value: value, Count: int(n)})
	}
	return out, nil
}

func (g *GraphStore) countryFilterOptions(ctx context.Context, sess neo4j.SessionWithContext) ([]domain.CountryFilterOption, error) {
	countries, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasPersonalInfo+`]->(:`+labelPersonalInfo+`)-[:`+relHasDemographics+`]->(:`+labelDemographics+`)-[:`+relHasLocation+`]->(dl:`+labelLocation+`)
		 WHERE dl.country <> '' RETURN dl.country AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	cityRows, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasPersonalInfo+`]->(:`+labelPersonalInfo+`)-[:`+relHasDemographics+`]->(:`+labelDemographics+`)-[:`+relHasLocation+`]->(dl:`+labelLocation+`)
		 WHERE dl.country <> '' AND dl.city <> '' RETURN dl.country + '|' + dl.city AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	citiesByCountry := map[string][]domain.FilterOption{}
	for _, row := range cityRows {
		country, city, ok := splitPair(row.Value)
		if !ok {
			continue
		}
		citiesByCountry[country] = append(citiesByCountry[country], domain.FilterOption{Value: city, Count: row.Count})
	}

	out := make([]domain.CountryFilterOption, len(countries))
	for i, c := range countries {
		out[i] = domain.CountryFilterOption{Country: c.Value, Count: c.Count, Cities: citiesByCountry[c.Value]}
	}
	return out, nil
}

func (g *GraphStore) educationFilterOptions(ctx context.Context, sess neo4j.SessionWithContext) ([]domain.EducationFilterOption, error) {
	levels, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasEducation+`]->(edu:`+labelEducationItem+`)
		 WHERE edu.qualification <> '' RETURN edu.qualification AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	statusRows, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasEducation+`]->(edu:`+labelEducationItem+`)
		 WHERE edu.qualification <> '' AND edu.status <> '' RETURN edu.qualification + '|' + edu.status AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	statusesByLevel := map[string][]domain.FilterOption{}
	for _, row := range statusRows {
		level, status, ok := splitPair(row.Value)
		if !ok {
			continue
		}
		statusesByLevel[level] = append(statusesByLevel[level], domain.FilterOption{Value: status, Count: row.Count})
	}

	out := make([]domain.EducationFilterOption, len(levels))
	for i, l := range levels {
		out[i] = domain.EducationFilterOption{Level: l.Value, Count: l.Count, Statuses: statusesByLevel[l.Value]}
	}
	return out, nil
}

func (g *GraphStore) languageFilterOptions(ctx context.Context, sess neo4j.SessionWithContext) ([]domain.LanguageFilterOption, error) {
	languages, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasLanguageProficiency+`]->(:`+labelLanguageProficiency+`)-[:`+relOfLanguage+`]->(lang:`+labelLanguage+`)
		 RETURN lang.name AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	cefrRows, err := g.countBy(ctx, sess,
		`MATCH (r:`+labelResume+`)-[:`+relHasLanguageProficiency+`]->(lp:`+labelLanguageProficiency+`)-[:`+relOfLanguage+`]->(lang:`+labelLanguage+`)
		 WHERE lp.cefr <> '' RETURN lang.name + '|' + lp.cefr AS value, count(DISTINCT r) AS n ORDER BY n DESC, value`)
	if err != nil {
		return nil, err
	}

	cefrByLanguage := map[string][]domain.FilterOption{}
	for _, row := range cefrRows {
		lang, cefr, ok := splitPair(row.Value)
		if !ok {
			continue
		}
		cefrByLanguage[lang] = append(cefrByLanguage[lang], domain.FilterOption{Value: cefr, Count: row.Count})
	}

	out := make([]domain.LanguageFilterOption, len(languages))
	for i, l := range languages {
		out[i] = domain.LanguageFilterOption{Language: l.Value, Count: l.Count, CEFR: cefrByLanguage[l.Value]}
	}
	return out, nil
}

// splitPair undoes the "a|b" concatenation used to group nested facets by
// their parent value in a single aggregation query.
func splitPair(s string) (a, b string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

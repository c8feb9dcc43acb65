package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/resumariner/engine/engine/domain"
)

// SearchResumes implements the Structured search mode (spec §4.K):
// translates SearchFilters into a single Cypher query, then hydrates the
// matching uids into full resumes via the same reader GetResume uses.
// Ordering is by created_at descending then uid; every match scores 1.0
// at the graph layer (structured search does not rank).
func (g *GraphStore) SearchResumes(ctx context.Context, f domain.SearchFilters, limit int) ([]domain.Resume, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	uids, err := g.searchUIDs(ctx, sess, f, limit)
	if err != nil {
		return nil, err
	}

	resumes := make([]domain.Resume, 0, len(uids))
	for _, uid := range uids {
		r, ok, err := g.readResume(ctx, sess, uid)
		if err != nil {
			return nil, err
		}
		if ok {
			resumes = append(resumes, r)
		}
	}
	return resumes, nil
}

func (g *GraphStore) searchUIDs(ctx context.Context, sess neo4j.SessionWithContext, f domain.SearchFilters, limit int) ([]string, error) {
	params := map[string]any{"limit": limit, "minMonths": f.YearsExperience * 12}
	var where []string

	cypher := `MATCH (resume:` + labelResume + `)`

	if f.Role != "" {
		cypher += ` MATCH (resume)-[:` + relHasProfessionalProfile + `]->(:` + labelProfessionalProfile + `)-[:` + relHasPreferences + `]->(pref:` + labelPreferences + `)`
		where = append(where, `toLower(pref.role) CONTAINS toLower($role)`)
		params["role"] = f.Role
	}

	if len(f.Skills) > 0 {
		where = append(where, `all(skillName IN $skills WHERE EXISTS { MATCH (resume)-[:`+relHasSkill+`]->(:`+labelSkill+` {name: skillName}) })`)
		params["skills"] = f.Skills
	}

	if f.Company != "" {
		where = append(where, `EXISTS { MATCH (resume)-[:`+relHasEmploymentHistory+`]->(:`+labelEmploymentItem+`)-[:`+relWorkedAt+`]->(:`+labelCompany+` {name: $company}) }`)
		params["company"] = f.Company
	}

	if len(f.Locations) > 0 {
		var locClauses []string
		for i, loc := range f.Locations {
			countryKey := fmt.Sprintf("loc_country_%d", i)
			citiesKey := fmt.Sprintf("loc_cities_%d", i)
			params[countryKey] = loc.Country
			params[citiesKey] = loc.Cities
			locClauses = append(locClauses, `EXISTS { MATCH (resume)-[:`+relHasPersonalInfo+`]->(:`+labelPersonalInfo+`)-[:`+relHasDemographics+`]->(:`+labelDemographics+`)-[:`+relHasLocation+`]->(dl:`+labelLocation+`) WHERE dl.country = $`+countryKey+` AND (size($`+citiesKey+`) = 0 OR dl.city IN $`+citiesKey+`) }`)
		}
		where = append(where, "("+joinOr(locClauses)+")")
	}

	for i, edu := range f.Education {
		levelKey := fmt.Sprintf("edu_level_%d", i)
		statusesKey := fmt.Sprintf("edu_statuses_%d", i)
		params[levelKey] = edu.Level
		statuses := make([]string, len(edu.Statuses))
		for j, s := range edu.Statuses {
			statuses[j] = string(s)
		}
		params[statusesKey] = statuses
		where = append(where, `EXISTS { MATCH (resume)-[:`+relHasEducation+`]->(edu:`+labelEducationItem+`) WHERE edu.qualification = $`+levelKey+` AND (size($`+statusesKey+`) = 0 OR edu.status IN $`+statusesKey+`) }`)
	}

	for i, lang := range f.Languages {
		langKey := fmt.Sprintf("lang_name_%d", i)
		cefrsKey := fmt.Sprintf("lang_cefrs_%d", i)
		params[langKey] = lang.Language
		params[cefrsKey] = domain.CEFRAtOrAbove(lang.MinCEFR)
		where = append(where, `EXISTS { MATCH (resume)-[:`+relHasLanguageProficiency+`]->(lp:`+labelLanguageProficiency+`)-[:`+relOfLanguage+`]->(:`+labelLanguage+` {name: $`+langKey+`}) WHERE lp.cefr IN $`+cefrsKey+` }`)
	}

	if len(where) > 0 {
		cypher += " WHERE " + joinAnd(where)
	}

	cypher += `
		OPTIONAL MATCH (resume)-[:` + relHasEmploymentHistory + `]->(:` + labelEmploymentItem + `)-[:` + relHasDuration + `]->(dur:` + labelDuration + `)
		WITH resume, sum(coalesce(dur.duration_months, 0)) AS totalMonths
		WHERE totalMonths >= $minMonths
		RETURN resume.uid AS uid
		ORDER BY resume.created_at DESC, uid
		LIMIT $limit`

	res, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, domain.NewStoreUnavailable("search.SearchResumes", "neo4j", err)
	}

	var uids []string
	for res.Next(ctx) {
		uid, _, _ := neo4j.GetRecordValue[string](res.Record(), "uid")
		uids = append(uids, uid)
	}
	return uids, nil
}

func joinAnd(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}

func joinOr(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " OR " + c
	}
	return out
}

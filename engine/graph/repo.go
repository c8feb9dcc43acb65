package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/repo"
)

// newSkillRepo, newCompanyRepo, newInstitutionRepo, and newLanguageRepo
// back the shared lookup nodes named unique-by-name in I2, keyed by name.
// GraphStore reads through them in its List* accessors. Writes do not go
// through these repos: materializeResume MERGEs each company, skill,
// institution, and language by name in its own Cypher, so re-ingesting a
// resume collapses onto the existing node rather than duplicating it.

func newSkillRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.Skill, string] {
	return repo.NewNeo4jRepo[domain.Skill, string](
		driver, labelSkill,
		func(s domain.Skill) map[string]any { return map[string]any{"name": s.Name} },
		func(rec *neo4j.Record) (domain.Skill, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
			if err != nil {
				return domain.Skill{}, err
			}
			return domain.Skill{Name: strProp(node.Props, "name")}, nil
		},
		repo.WithIDKey[domain.Skill, string]("name"),
	)
}

func newCompanyRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.CompanyInfo, string] {
	return repo.NewNeo4jRepo[domain.CompanyInfo, string](
		driver, labelCompany,
		func(c domain.CompanyInfo) map[string]any { return map[string]any{"name": c.Name} },
		func(rec *neo4j.Record) (domain.CompanyInfo, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
			if err != nil {
				return domain.CompanyInfo{}, err
			}
			return domain.CompanyInfo{Name: strProp(node.Props, "name")}, nil
		},
		repo.WithIDKey[domain.CompanyInfo, string]("name"),
	)
}

func newInstitutionRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.InstitutionInfo, string] {
	return repo.NewNeo4jRepo[domain.InstitutionInfo, string](
		driver, labelInstitution,
		func(i domain.InstitutionInfo) map[string]any { return map[string]any{"name": i.Name} },
		func(rec *neo4j.Record) (domain.InstitutionInfo, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
			if err != nil {
				return domain.InstitutionInfo{}, err
			}
			return domain.InstitutionInfo{Name: strProp(node.Props, "name")}, nil
		},
		repo.WithIDKey[domain.InstitutionInfo, string]("name"),
	)
}

func newLanguageRepo(driver neo4j.DriverWithContext) *repo.Neo4jRepo[domain.Language, string] {
	return repo.NewNeo4jRepo[domain.Language, string](
		driver, labelLanguage,
		func(l domain.Language) map[string]any { return map[string]any{"name": l.Name} },
		func(rec *neo4j.Record) (domain.Language, error) {
			node, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "n")
			if err != nil {
				return domain.Language{}, err
			}
			return domain.Language{Name: strProp(node.Props, "name")}, nil
		},
		repo.WithIDKey[domain.Language, string]("name"),
	)
}

package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/repo"
)

// GraphStore is the graph store adapter (§4.H): Resume aggregate upsert,
// cascade delete, and lookup by uid or email, backed by Neo4j.
type GraphStore struct {
	driver       neo4j.DriverWithContext
	skills       *repo.Neo4jRepo[domain.Skill, string]
	companies    *repo.Neo4jRepo[domain.CompanyInfo, string]
	institutions *repo.Neo4jRepo[domain.InstitutionInfo, string]
	languages    *repo.Neo4jRepo[domain.Language, string]
	now          func() time.Time
}

// New creates a GraphStore over an open Neo4j driver.
func New(driver neo4j.DriverWithContext) *GraphStore {
	return &GraphStore{
		driver:       driver,
		skills:       newSkillRepo(driver),
		companies:    newCompanyRepo(driver),
		institutions: newInstitutionRepo(driver),
		languages:    newLanguageRepo(driver),
		now:          time.Now,
	}
}

func (g *GraphStore) session(ctx context.Context) neo4j.SessionWithContext {
	return g.driver.NewSession(ctx, neo4j.SessionConfig{})
}

// resolveUID implements the upsert protocol's uid-resolution step: prefer
// an existing resume matched by email, else an existing uid, else a fresh
// one.
func (g *GraphStore) resolveUID(ctx context.Context, sess neo4j.SessionWithContext, r domain.Resume) (uid string, existed bool, err error) {
	email := r.PersonalInfo.Contact.Email
	if email != "" {
		cypher := `MATCH (r:` + labelResume + `)-[:` + relHasPersonalInfo + `]->(:` + labelPersonalInfo + `)-[:` + relHasContact + `]->(c:` + labelContact + ` {email: $email}) RETURN r.uid AS uid LIMIT 1`
		res, err := sess.Run(ctx, cypher, map[string]any{"email": email})
		if err != nil {
			return "", false, err
		}
		if res.Next(ctx) {
			if v, ok := res.Record().Get("uid"); ok {
				return v.(string), true, nil
			}
		}
	}
	if r.UID != "" {
		cypher := `MATCH (r:` + labelResume + ` {uid: $uid}) RETURN r.uid AS uid LIMIT 1`
		res, err := sess.Run(ctx, cypher, map[string]any{"uid": r.UID})
		if err != nil {
			return "", false, err
		}
		if res.Next(ctx) {
			return r.UID, true, nil
		}
	}
	return uuid.NewString(), false, nil
}

// UpsertResume implements the upsert protocol in §4.H. It resolves the
// uid, cascade-deletes any prior aggregate under that uid, then
// materializes the new aggregate inside a single write transaction.
func (g *GraphStore) UpsertResume(ctx context.Context, r domain.Resume) (domain.Resume, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	uid, existed, err := g.resolveUID(ctx, sess, r)
	if err != nil {
		return domain.Resume{}, domain.NewStoreUnavailable("UpsertResume", "neo4j", err)
	}
	r.UID = uid

	createdAt := r.CreatedAt
	if !existed || createdAt.IsZero() {
		createdAt = g.now()
	}
	updatedAt := g.now()

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if existed {
			if err := runCascadeDelete(ctx, tx, uid); err != nil {
				return nil, err
			}
		}
		if err := materializeResume(ctx, tx, uid, createdAt, updatedAt, r); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return domain.Resume{}, domain.NewStoreUnavailable("UpsertResume", "neo4j", err)
	}

	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	return r, nil
}

// materializeResume creates the resume root and every exclusive child,
// merging shared leaves (company/institution/language) by name, within
// the caller's write transaction.
func materializeResume(ctx context.Context, tx neo4j.ManagedTransaction, uid string, createdAt, updatedAt time.Time, r domain.Resume) error {
	if _, err := tx.Run(ctx,
		`CREATE (resume:`+labelResume+` {uid: $uid, created_at: $created_at, updated_at: $updated_at})`,
		map[string]any{"uid": uid, "created_at": createdAt.Format(time.RFC3339), "updated_at": updatedAt.Format(time.RFC3339)},
	); err != nil {
		return err
	}

	if err := materializePersonalInfo(ctx, tx, uid, r.PersonalInfo); err != nil {
		return err
	}
	if err := materializeProfile(ctx, tx, uid, r.Profile); err != nil {
		return err
	}

	for _, s := range r.Skills {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid}) MERGE (s:`+labelSkill+` {name: $name}) MERGE (resume)-[:`+relHasSkill+`]->(s)`,
			map[string]any{"uid": uid, "name": s.Name},
		); err != nil {
			return err
		}
	}

	for _, e := range r.EmploymentHistory {
		if err := materializeEmployment(ctx, tx, uid, e); err != nil {
			return err
		}
	}
	for _, p := range r.Projects {
		if err := materializeProject(ctx, tx, uid, p); err != nil {
			return err
		}
	}
	for _, ed := range r.Education {
		if err := materializeEducation(ctx, tx, uid, ed); err != nil {
			return err
		}
	}
	for _, c := range r.Courses {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid}) CREATE (resume)-[:`+relHasCourse+`]->(n:`+labelCourse+` {name: $name, provider: $provider, year: $year})`,
			map[string]any{"uid": uid, "name": c.Name, "provider": c.Provider, "year": c.Year},
		); err != nil {
			return err
		}
	}
	for _, c := range r.Certifications {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid}) CREATE (resume)-[:`+relHasCertification+`]->(n:`+labelCertification+` {name: $name, issuer: $issuer, year: $year})`,
			map[string]any{"uid": uid, "name": c.Name, "issuer": c.Issuer, "year": c.Year},
		); err != nil {
			return err
		}
	}
	for _, a := range r.Awards {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid}) CREATE (resume)-[:`+relHasAward+`]->(n:`+labelAward+` {title: $title, award_type: $award_type, year: $year, issuer: $issuer})`,
			map[string]any{"uid": uid, "title": a.Title, "award_type": string(a.AwardType), "year": a.Year, "issuer": a.Issuer},
		); err != nil {
			return err
		}
	}
	for _, s := range r.ScientificContributions {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid}) CREATE (resume)-[:`+relHasScientificContribution+`]->(n:`+labelScientificContribution+` {title: $title, publication_type: $publication_type, venue: $venue, year: $year, url: $url})`,
			map[string]any{"uid": uid, "title": s.Title, "publication_type": string(s.PublicationType), "venue": s.Venue, "year": s.Year, "url": s.URL},
		); err != nil {
			return err
		}
	}
	for _, lp := range r.Languages {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})
			 MERGE (lang:`+labelLanguage+` {name: $lang_name})
			 CREATE (resume)-[:`+relHasLanguageProficiency+`]->(n:`+labelLanguageProficiency+` {self_assessed: $self_assessed, cefr: $cefr})
			 CREATE (n)-[:`+relOfLanguage+`]->(lang)`,
			map[string]any{"uid": uid, "lang_name": lp.Language.Name, "self_assessed": lp.SelfAssessed, "cefr": string(lp.CEFR)},
		); err != nil {
			return err
		}
	}
	return nil
}

func materializePersonalInfo(ctx context.Context, tx neo4j.ManagedTransaction, uid string, pi domain.PersonalInfo) error {
	if _, err := tx.Run(ctx,
		`MATCH (resume:`+labelResume+` {uid: $uid})
		 CREATE (resume)-[:`+relHasPersonalInfo+`]->(p:`+labelPersonalInfo+` {name: $name, resume_lang: $resume_lang})
		 CREATE (p)-[:`+relHasContact+`]->(c:`+labelContact+` {email: $email, phone: $phone})`,
		map[string]any{
			"uid": uid, "name": pi.Name, "resume_lang": pi.ResumeLang,
			"email": pi.Contact.Email, "phone": pi.Contact.Phone,
		},
	); err != nil {
		return err
	}
	links := pi.Contact.Links
	if links.LinkedIn != "" || links.GitHub != "" || links.Website != "" || len(links.Other) > 0 {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasPersonalInfo+`]->(:`+labelPersonalInfo+`)-[:`+relHasContact+`]->(c:`+labelContact+`)
			 CREATE (c)-[:`+relHasLinks+`]->(l:`+labelContactLinks+` {linkedin: $linkedin, github: $github, website: $website, other: $other})`,
			map[string]any{
				"uid": uid, "linkedin": links.LinkedIn, "github": links.GitHub,
				"website": links.Website, "other": links.Other,
			},
		); err != nil {
			return err
		}
	}
	if pi.Demographics != nil {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasPersonalInfo+`]->(p:`+labelPersonalInfo+`)
			 CREATE (p)-[:`+relHasDemographics+`]->(d:`+labelDemographics+`)
			 CREATE (d)-[:`+relHasLocation+`]->(:`+labelLocation+` {country: $country, city: $city})
			 CREATE (d)-[:`+relHasWorkAuthorization+`]->(:`+labelWorkAuthorization+` {country: $wa_country, status: $status, requires_sponsorship: $requires_sponsorship})`,
			map[string]any{
				"uid": uid, "country": pi.Demographics.Location.Country, "city": pi.Demographics.Location.City,
				"wa_country": pi.Demographics.WorkAuthorization.Country, "status": pi.Demographics.WorkAuthorization.Status,
				"requires_sponsorship": pi.Demographics.WorkAuthorization.RequiresSponsorship,
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func materializeProfile(ctx context.Context, tx neo4j.ManagedTransaction, uid string, p domain.ProfessionalProfile) error {
	if _, err := tx.Run(ctx,
		`MATCH (resume:`+labelResume+` {uid: $uid})
		 CREATE (resume)-[:`+relHasProfessionalProfile+`]->(pp:`+labelProfessionalProfile+` {summary: $summary})
		 CREATE (pp)-[:`+relHasPreferences+`]->(:`+labelPreferences+` {role: $role, employment_types: $employment_types, work_modes: $work_modes, salary: $salary})`,
		map[string]any{
			"uid": uid, "summary": p.Summary, "role": p.Preferences.Role,
			"employment_types": employmentTypeStrings(p.Preferences.EmploymentTypes),
			"work_modes":       workModeStrings(p.Preferences.WorkModes),
			"salary":           p.Preferences.Salary,
		},
	); err != nil {
		return err
	}
	return nil
}

func materializeEmployment(ctx context.Context, tx neo4j.ManagedTransaction, uid string, e domain.EmploymentHistoryItem) error {
	// item_key is a synthetic per-node UUID, not part of the domain model:
	// two employment items can share the same position (e.g. two
	// "Software Engineer" stints at different companies), so matching the
	// follow-up keypoint/technology writes back to this specific node by
	// position would cross-contaminate them with any other item sharing
	// it. item_key makes the follow-up MATCH unambiguous.
	itemKey := uuid.NewString()
	if _, err := tx.Run(ctx,
		`MATCH (resume:`+labelResume+` {uid: $uid})
		 MERGE (co:`+labelCompany+` {name: $company})
		 CREATE (resume)-[:`+relHasEmploymentHistory+`]->(eh:`+labelEmploymentItem+` {item_key: $item_key, position: $position, employment_type: $employment_type, work_mode: $work_mode})
		 CREATE (eh)-[:`+relWorkedAt+`]->(co)
		 CREATE (eh)-[:`+relHasDuration+`]->(:`+labelDuration+` {date_format: $date_format, start: $start, end: $end, duration_months: $duration_months})
		 CREATE (eh)-[:`+relLocatedAt+`]->(:`+labelLocation+` {country: $country, city: $city})`,
		map[string]any{
			"uid": uid, "item_key": itemKey, "company": e.Company.Name, "position": e.Position,
			"employment_type": string(e.EmploymentType), "work_mode": string(e.WorkMode),
			"date_format": e.Duration.DateFormat, "start": e.Duration.Start, "end": e.Duration.End,
			"duration_months": e.Duration.DurationMonths,
			"country":         e.Location.Country, "city": e.Location.City,
		},
	); err != nil {
		return err
	}
	for _, kp := range e.KeyPoints {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasEmploymentHistory+`]->(eh:`+labelEmploymentItem+` {item_key: $item_key})
			 CREATE (eh)-[:`+relHasKeyPoint+`]->(:`+labelKeyPoint+` {text: $text})`,
			map[string]any{"uid": uid, "item_key": itemKey, "text": kp.Text},
		); err != nil {
			return err
		}
	}
	for _, t := range e.Technologies {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasEmploymentHistory+`]->(eh:`+labelEmploymentItem+` {item_key: $item_key})
			 CREATE (eh)-[:`+relUsesTechnology+`]->(:`+labelTechnology+` {name: $name})`,
			map[string]any{"uid": uid, "item_key": itemKey, "name": t.Name},
		); err != nil {
			return err
		}
	}
	return nil
}

func materializeProject(ctx context.Context, tx neo4j.ManagedTransaction, uid string, p domain.Project) error {
	// item_key disambiguates two projects that share a title, the same
	// way materializeEmployment's does for position.
	itemKey := uuid.NewString()
	if _, err := tx.Run(ctx,
		`MATCH (resume:`+labelResume+` {uid: $uid})
		 CREATE (resume)-[:`+relHasProject+`]->(proj:`+labelProject+` {item_key: $item_key, title: $title, url: $url})`,
		map[string]any{"uid": uid, "item_key": itemKey, "title": p.Title, "url": p.URL},
	); err != nil {
		return err
	}
	for _, kp := range p.KeyPoints {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasProject+`]->(proj:`+labelProject+` {item_key: $item_key})
			 CREATE (proj)-[:`+relHasKeyPoint+`]->(:`+labelKeyPoint+` {text: $text})`,
			map[string]any{"uid": uid, "item_key": itemKey, "text": kp.Text},
		); err != nil {
			return err
		}
	}
	for _, t := range p.Technologies {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasProject+`]->(proj:`+labelProject+` {item_key: $item_key})
			 CREATE (proj)-[:`+relUsesTechnology+`]->(:`+labelTechnology+` {name: $name})`,
			map[string]any{"uid": uid, "item_key": itemKey, "name": t.Name},
		); err != nil {
			return err
		}
	}
	return nil
}

func materializeEducation(ctx context.Context, tx neo4j.ManagedTransaction, uid string, ed domain.EducationItem) error {
	// item_key disambiguates two education entries sharing a
	// qualification (e.g. two "Bachelor's" entries at different
	// institutions); without it, readEducation's qualification-keyed
	// grouping would collapse them into one.
	itemKey := uuid.NewString()
	if _, err := tx.Run(ctx,
		`MATCH (resume:`+labelResume+` {uid: $uid})
		 MERGE (inst:`+labelInstitution+` {name: $institution})
		 CREATE (resume)-[:`+relHasEducation+`]->(edu:`+labelEducationItem+` {item_key: $item_key, qualification: $qualification, field: $field, status: $status})
		 CREATE (edu)-[:`+relAttended+`]->(inst)`,
		map[string]any{
			"uid": uid, "item_key": itemKey, "institution": ed.Institution.Name, "qualification": ed.Qualification,
			"field": ed.Field, "status": string(ed.Status),
		},
	); err != nil {
		return err
	}
	for _, cw := range ed.Coursework {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasEducation+`]->(edu:`+labelEducationItem+` {item_key: $item_key})
			 CREATE (edu)-[:`+relIncludesCoursework+`]->(:`+labelCoursework+` {name: $name})`,
			map[string]any{"uid": uid, "item_key": itemKey, "name": cw.Name},
		); err != nil {
			return err
		}
	}
	for _, ex := range ed.Extras {
		if _, err := tx.Run(ctx,
			`MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasEducation+`]->(edu:`+labelEducationItem+` {item_key: $item_key})
			 CREATE (edu)-[:`+relHasExtra+`]->(:`+labelExtra+` {text: $text})`,
			map[string]any{"uid": uid, "item_key": itemKey, "text": ex.Text},
		); err != nil {
			return err
		}
	}
	return nil
}

// runCascadeDelete implements §4.H's cascade delete: a single leaves-first
// detach-delete reachable from the resume, skipping shared lookup nodes
// (Skill, CompanyInfo, InstitutionInfo, Language).
func runCascadeDelete(ctx context.Context, tx neo4j.ManagedTransaction, uid string) error {
	cypher := `
	MATCH (resume:` + labelResume + ` {uid: $uid})

	OPTIONAL MATCH (resume)-[:` + relHasPersonalInfo + `]->(pi:` + labelPersonalInfo + `)
	OPTIONAL MATCH (pi)-[:` + relHasContact + `]->(c:` + labelContact + `)
	OPTIONAL MATCH (c)-[:` + relHasLinks + `]->(cl:` + labelContactLinks + `)
	OPTIONAL MATCH (pi)-[:` + relHasDemographics + `]->(d:` + labelDemographics + `)
	OPTIONAL MATCH (d)-[:` + relHasLocation + `]->(dl:` + labelLocation + `)
	OPTIONAL MATCH (d)-[:` + relHasWorkAuthorization + `]->(wa:` + labelWorkAuthorization + `)

	OPTIONAL MATCH (resume)-[:` + relHasProfessionalProfile + `]->(pp:` + labelProfessionalProfile + `)
	OPTIONAL MATCH (pp)-[:` + relHasPreferences + `]->(pref:` + labelPreferences + `)

	OPTIONAL MATCH (resume)-[:` + relHasEmploymentHistory + `]->(eh:` + labelEmploymentItem + `)
	OPTIONAL MATCH (eh)-[:` + relHasDuration + `]->(dur:` + labelDuration + `)
	OPTIONAL MATCH (eh)-[:` + relLocatedAt + `]->(eloc:` + labelLocation + `)
	OPTIONAL MATCH (eh)-[:` + relHasKeyPoint + `]->(kp:` + labelKeyPoint + `)
	OPTIONAL MATCH (eh)-[:` + relUsesTechnology + `]->(etech:` + labelTechnology + `)

	OPTIONAL MATCH (resume)-[:` + relHasProject + `]->(proj:` + labelProject + `)
	OPTIONAL MATCH (proj)-[:` + relHasKeyPoint + `]->(pkp:` + labelKeyPoint + `)
	OPTIONAL MATCH (proj)-[:` + relUsesTechnology + `]->(ptech:` + labelTechnology + `)

	OPTIONAL MATCH (resume)-[:` + relHasEducation + `]->(edu:` + labelEducationItem + `)
	OPTIONAL MATCH (edu)-[:` + relIncludesCoursework + `]->(cw:` + labelCoursework + `)
	OPTIONAL MATCH (edu)-[:` + relHasExtra + `]->(ex:` + labelExtra + `)

	OPTIONAL MATCH (resume)-[:` + relHasCourse + `]->(course:` + labelCourse + `)
	OPTIONAL MATCH (resume)-[:` + relHasCertification + `]->(cert:` + labelCertification + `)
	OPTIONAL MATCH (resume)-[:` + relHasAward + `]->(award:` + labelAward + `)
	OPTIONAL MATCH (resume)-[:` + relHasScientificContribution + `]->(sc:` + labelScientificContribution + `)

	OPTIONAL MATCH (resume)-[:` + relHasLanguageProficiency + `]->(lp:` + labelLanguageProficiency + `)

	DETACH DELETE lp, sc, award, cert, course
	DETACH DELETE ex, cw, edu
	DETACH DELETE pkp, ptech, proj
	DETACH DELETE kp, etech, eloc, dur, eh
	DETACH DELETE pref, pp
	DETACH DELETE wa, dl, d, cl, c, pi
	DETACH DELETE resume
	`
	_, err := tx.Run(ctx, cypher, map[string]any{"uid": uid})
	return err
}

// DeleteResume deletes a resume aggregate by uid, leaving shared lookup
// nodes intact. Returns false if no resume existed under uid.
func (g *GraphStore) DeleteResume(ctx context.Context, uid string) (bool, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	res, err := sess.Run(ctx, `MATCH (r:`+labelResume+` {uid: $uid}) RETURN r.uid AS uid`, map[string]any{"uid": uid})
	if err != nil {
		return false, domain.NewStoreUnavailable("DeleteResume", "neo4j", err)
	}
	if !res.Next(ctx) {
		return false, nil
	}

	_, err = sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, runCascadeDelete(ctx, tx, uid)
	})
	if err != nil {
		return false, domain.NewStoreUnavailable("DeleteResume", "neo4j", err)
	}
	return true, nil
}

// DeleteResumeCascade is an explicit alias for DeleteResume's effect, kept
// distinct in the public API per §4.H's operation list.
func (g *GraphStore) DeleteResumeCascade(ctx context.Context, uid string) error {
	_, err := g.DeleteResume(ctx, uid)
	return err
}

// GetResume reconstructs the full Resume aggregate for uid. Returns
// (zero, false, nil) if no resume exists under uid.
func (g *GraphStore) GetResume(ctx context.Context, uid string) (domain.Resume, bool, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)
	return g.readResume(ctx, sess, uid)
}

// GetResumesByIds reconstructs every resume named in uids, omitting any
// uid that does not exist.
func (g *GraphStore) GetResumesByIds(ctx context.Context, uids []string) (map[string]domain.Resume, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	out := make(map[string]domain.Resume, len(uids))
	for _, uid := range uids {
		r, found, err := g.readResume(ctx, sess, uid)
		if err != nil {
			return nil, err
		}
		if found {
			out[uid] = r
		}
	}
	return out, nil
}

// GetResumeByEmail reconstructs the resume whose Contact.Email matches
// email, or (zero, false, nil) if none exists.
func (g *GraphStore) GetResumeByEmail(ctx context.Context, email string) (domain.Resume, bool, error) {
	sess := g.session(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (r:` + labelResume + `)-[:` + relHasPersonalInfo + `]->(:` + labelPersonalInfo + `)-[:` + relHasContact + `]->(c:` + labelContact + ` {email: $email}) RETURN r.uid AS uid LIMIT 1`
	res, err := sess.Run(ctx, cypher, map[string]any{"email": email})
	if err != nil {
		return domain.Resume{}, false, domain.NewStoreUnavailable("GetResumeByEmail", "neo4j", err)
	}
	if !res.Next(ctx) {
		return domain.Resume{}, false, nil
	}
	uid, _ := res.Record().Get("uid")
	return g.readResume(ctx, sess, uid.(string))
}

func (g *GraphStore) readResume(ctx context.Context, sess neo4j.SessionWithContext, uid string) (domain.Resume, bool, error) {
	res, err := sess.Run(ctx, `MATCH (r:`+labelResume+` {uid: $uid}) RETURN r`, map[string]any{"uid": uid})
	if err != nil {
		return domain.Resume{}, false, domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if !res.Next(ctx) {
		return domain.Resume{}, false, nil
	}
	root, _, err := neo4j.GetRecordValue[dbtype.Node](res.Record(), "r")
	if err != nil {
		return domain.Resume{}, false, domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}

	r := domain.Resume{UID: uid}
	r.CreatedAt = parseTime(strProp(root.Props, "created_at"))
	r.UpdatedAt = parseTime(strProp(root.Props, "updated_at"))

	if err := g.readPersonalInfo(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readProfile(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readSkills(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readEmploymentHistory(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readProjects(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readEducation(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readFlatChildren(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	if err := g.readLanguages(ctx, sess, uid, &r); err != nil {
		return domain.Resume{}, false, err
	}
	return r, true, nil
}

func (g *GraphStore) readPersonalInfo(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasPersonalInfo + `]->(p:` + labelPersonalInfo + `)-[:` + relHasContact + `]->(c:` + labelContact + `)
		OPTIONAL MATCH (c)-[:` + relHasLinks + `]->(l:` + labelContactLinks + `)
		OPTIONAL MATCH (p)-[:` + relHasDemographics + `]->(d:` + labelDemographics + `)
		OPTIONAL MATCH (d)-[:` + relHasLocation + `]->(dl:` + labelLocation + `)
		OPTIONAL MATCH (d)-[:` + relHasWorkAuthorization + `]->(wa:` + labelWorkAuthorization + `)
		RETURN p, c, l, d, dl, wa LIMIT 1`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if !res.Next(ctx) {
		return nil
	}
	rec := res.Record()
	p, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "p")
	c, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "c")
	r.PersonalInfo = domain.PersonalInfo{
		Name:       strProp(p.Props, "name"),
		ResumeLang: strProp(p.Props, "resume_lang"),
		Contact: domain.Contact{
			Email: strProp(c.Props, "email"),
			Phone: strProp(c.Props, "phone"),
		},
	}
	if l, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "l"); err == nil {
		r.PersonalInfo.Contact.Links = domain.ContactLinks{
			LinkedIn: strProp(l.Props, "linkedin"),
			GitHub:   strProp(l.Props, "github"),
			Website:  strProp(l.Props, "website"),
			Other:    stringSliceProp(l.Props, "other"),
		}
	}
	if d, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "d"); err == nil {
		demo := &domain.Demographics{}
		if dl, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "dl"); err == nil {
			demo.Location = domain.Location{Country: strProp(dl.Props, "country"), City: strProp(dl.Props, "city")}
		}
		if wa, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "wa"); err == nil {
			demo.WorkAuthorization = domain.WorkAuthorization{
				Country:             strProp(wa.Props, "country"),
				Status:              strProp(wa.Props, "status"),
				RequiresSponsorship: boolProp(wa.Props, "requires_sponsorship"),
			}
		}
		_ = d
		r.PersonalInfo.Demographics = demo
	}
	return nil
}

func (g *GraphStore) readProfile(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasProfessionalProfile + `]->(pp:` + labelProfessionalProfile + `)-[:` + relHasPreferences + `]->(pref:` + labelPreferences + `)
		RETURN pp, pref LIMIT 1`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if !res.Next(ctx) {
		return nil
	}
	rec := res.Record()
	pp, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "pp")
	pref, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "pref")
	r.Profile = domain.ProfessionalProfile{
		Summary: strProp(pp.Props, "summary"),
		Preferences: domain.JobPreferences{
			Role:            strProp(pref.Props, "role"),
			EmploymentTypes: employmentTypesFromStrings(stringSliceProp(pref.Props, "employment_types")),
			WorkModes:       workModesFromStrings(stringSliceProp(pref.Props, "work_modes")),
			Salary:          strProp(pref.Props, "salary"),
		},
	}
	return nil
}

func (g *GraphStore) readSkills(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasSkill + `]->(s:` + labelSkill + `) RETURN s`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	for res.Next(ctx) {
		s, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "s")
		r.Skills = append(r.Skills, domain.Skill{Name: strProp(s.Props, "name")})
	}
	return nil
}

func (g *GraphStore) readEmploymentHistory(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasEmploymentHistory + `]->(eh:` + labelEmploymentItem + `)-[:` + relWorkedAt + `]->(co:` + labelCompany + `)
		OPTIONAL MATCH (eh)-[:` + relHasDuration + `]->(dur:` + labelDuration + `)
		OPTIONAL MATCH (eh)-[:` + relLocatedAt + `]->(loc:` + labelLocation + `)
		RETURN eh, co, dur, loc`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	for res.Next(ctx) {
		rec := res.Record()
		eh, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "eh")
		co, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "co")
		item := domain.EmploymentHistoryItem{
			Position:       strProp(eh.Props, "position"),
			EmploymentType: domain.EmploymentType(strProp(eh.Props, "employment_type")),
			WorkMode:       domain.WorkMode(strProp(eh.Props, "work_mode")),
			Company:        domain.CompanyInfo{Name: strProp(co.Props, "name")},
		}
		if dur, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "dur"); err == nil {
			item.Duration = domain.EmploymentDuration{
				DateFormat:     strProp(dur.Props, "date_format"),
				Start:          strProp(dur.Props, "start"),
				End:            strProp(dur.Props, "end"),
				DurationMonths: intProp(dur.Props, "duration_months"),
			}
		}
		if loc, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "loc"); err == nil {
			item.Location = domain.Location{Country: strProp(loc.Props, "country"), City: strProp(loc.Props, "city")}
		}
		itemKey := strProp(eh.Props, "item_key")
		if err := g.readKeyPointsAndTech(ctx, sess, uid, itemKey, &item.KeyPoints, &item.Technologies, true); err != nil {
			return err
		}
		r.EmploymentHistory = append(r.EmploymentHistory, item)
	}
	return nil
}

// readKeyPointsAndTech re-matches the parent node by its synthetic item_key
// rather than a business-key field (position/title), since two sibling
// items can share that field's value.
func (g *GraphStore) readKeyPointsAndTech(ctx context.Context, sess neo4j.SessionWithContext, uid, itemKey string, keyPoints *[]domain.KeyPoint, techs *[]domain.Technology, employment bool) error {
	parentLabel, parentRel := labelProject, relHasProject
	if employment {
		parentLabel, parentRel = labelEmploymentItem, relHasEmploymentHistory
	}
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + parentRel + `]->(parent:` + parentLabel + ` {item_key: $item_key})
		OPTIONAL MATCH (parent)-[:` + relHasKeyPoint + `]->(kp:` + labelKeyPoint + `)
		OPTIONAL MATCH (parent)-[:` + relUsesTechnology + `]->(t:` + labelTechnology + `)
		RETURN kp, t`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid, "item_key": itemKey})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	seenKP := map[string]bool{}
	seenT := map[string]bool{}
	for res.Next(ctx) {
		rec := res.Record()
		if kp, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "kp"); err == nil {
			text := strProp(kp.Props, "text")
			if text != "" && !seenKP[text] {
				seenKP[text] = true
				*keyPoints = append(*keyPoints, domain.KeyPoint{Text: text})
			}
		}
		if t, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "t"); err == nil {
			name := strProp(t.Props, "name")
			if name != "" && !seenT[name] {
				seenT[name] = true
				*techs = append(*techs, domain.Technology{Name: name})
			}
		}
	}
	return nil
}

func (g *GraphStore) readProjects(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasProject + `]->(proj:` + labelProject + `) RETURN proj`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	for res.Next(ctx) {
		proj, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "proj")
		p := domain.Project{Title: strProp(proj.Props, "title"), URL: strProp(proj.Props, "url")}
		if err := g.readKeyPointsAndTech(ctx, sess, uid, strProp(proj.Props, "item_key"), &p.KeyPoints, &p.Technologies, false); err != nil {
			return err
		}
		r.Projects = append(r.Projects, p)
	}
	return nil
}

func (g *GraphStore) readEducation(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasEducation + `]->(edu:` + labelEducationItem + `)-[:` + relAttended + `]->(inst:` + labelInstitution + `)
		OPTIONAL MATCH (edu)-[:` + relIncludesCoursework + `]->(cw:` + labelCoursework + `)
		OPTIONAL MATCH (edu)-[:` + relHasExtra + `]->(ex:` + labelExtra + `)
		RETURN edu, inst, cw, ex`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	// Grouped by item_key, not qualification: two education entries can
	// share a qualification (e.g. two Bachelor's degrees at different
	// institutions) and must not collapse into one returned item.
	byItemKey := map[string]*domain.EducationItem{}
	var order []string
	for res.Next(ctx) {
		rec := res.Record()
		edu, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "edu")
		inst, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "inst")
		key := strProp(edu.Props, "item_key")
		item, ok := byItemKey[key]
		if !ok {
			item = &domain.EducationItem{
				Qualification: strProp(edu.Props, "qualification"),
				Field:         strProp(edu.Props, "field"),
				Institution:   domain.InstitutionInfo{Name: strProp(inst.Props, "name")},
				Status:        domain.EducationStatus(strProp(edu.Props, "status")),
			}
			byItemKey[key] = item
			order = append(order, key)
		}
		if cw, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "cw"); err == nil {
			name := strProp(cw.Props, "name")
			if name != "" {
				item.Coursework = append(item.Coursework, domain.Coursework{Name: name})
			}
		}
		if ex, _, err := neo4j.GetRecordValue[dbtype.Node](rec, "ex"); err == nil {
			text := strProp(ex.Props, "text")
			if text != "" {
				item.Extras = append(item.Extras, domain.EducationExtra{Text: text})
			}
		}
	}
	for _, key := range order {
		r.Education = append(r.Education, *byItemKey[key])
	}
	return nil
}

func (g *GraphStore) readFlatChildren(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	if res, err := sess.Run(ctx, `MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasCourse+`]->(n:`+labelCourse+`) RETURN n`, map[string]any{"uid": uid}); err == nil {
		for res.Next(ctx) {
			n, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "n")
			r.Courses = append(r.Courses, domain.Course{Name: strProp(n.Props, "name"), Provider: strProp(n.Props, "provider"), Year: strProp(n.Props, "year")})
		}
	} else {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if res, err := sess.Run(ctx, `MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasCertification+`]->(n:`+labelCertification+`) RETURN n`, map[string]any{"uid": uid}); err == nil {
		for res.Next(ctx) {
			n, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "n")
			r.Certifications = append(r.Certifications, domain.Certification{Name: strProp(n.Props, "name"), Issuer: strProp(n.Props, "issuer"), Year: strProp(n.Props, "year")})
		}
	} else {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if res, err := sess.Run(ctx, `MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasAward+`]->(n:`+labelAward+`) RETURN n`, map[string]any{"uid": uid}); err == nil {
		for res.Next(ctx) {
			n, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "n")
			r.Awards = append(r.Awards, domain.Award{Title: strProp(n.Props, "title"), AwardType: domain.AwardType(strProp(n.Props, "award_type")), Year: strProp(n.Props, "year"), Issuer: strProp(n.Props, "issuer")})
		}
	} else {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	if res, err := sess.Run(ctx, `MATCH (resume:`+labelResume+` {uid: $uid})-[:`+relHasScientificContribution+`]->(n:`+labelScientificContribution+`) RETURN n`, map[string]any{"uid": uid}); err == nil {
		for res.Next(ctx) {
			n, _, _ := neo4j.GetRecordValue[dbtype.Node](res.Record(), "n")
			r.ScientificContributions = append(r.ScientificContributions, domain.ScientificContribution{
				Title: strProp(n.Props, "title"), PublicationType: domain.PublicationType(strProp(n.Props, "publication_type")),
				Venue: strProp(n.Props, "venue"), Year: strProp(n.Props, "year"), URL: strProp(n.Props, "url"),
			})
		}
	} else {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	return nil
}

func (g *GraphStore) readLanguages(ctx context.Context, sess neo4j.SessionWithContext, uid string, r *domain.Resume) error {
	cypher := `MATCH (resume:` + labelResume + ` {uid: $uid})-[:` + relHasLanguageProficiency + `]->(lp:` + labelLanguageProficiency + `)-[:` + relOfLanguage + `]->(lang:` + labelLanguage + `)
		RETURN lp, lang`
	res, err := sess.Run(ctx, cypher, map[string]any{"uid": uid})
	if err != nil {
		return domain.NewStoreUnavailable("GetResume", "neo4j", err)
	}
	for res.Next(ctx) {
		rec := res.Record()
		lp, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "lp")
		lang, _, _ := neo4j.GetRecordValue[dbtype.Node](rec, "lang")
		r.Languages = append(r.Languages, domain.LanguageProficiency{
			Language:     domain.Language{Name: strProp(lang.Props, "name")},
			SelfAssessed: boolProp(lp.Props, "self_assessed"),
			CEFR:         domain.CEFRLevel(strProp(lp.Props, "cefr")),
		})
	}
	return nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func stringSliceProp(props map[string]any, key string) []string {
	v, ok := props[key]
	if !ok {
		return nil
	}
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, x := range vs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func employmentTypeStrings(ts []domain.EmploymentType) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

func workModeStrings(ms []domain.WorkMode) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func employmentTypesFromStrings(ss []string) []domain.EmploymentType {
	out := make([]domain.EmploymentType, len(ss))
	for i, s := range ss {
		out[i] = domain.EmploymentType(s)
	}
	return out
}

func workModesFromStrings(ss []string) []domain.WorkMode {
	out := make([]domain.WorkMode, len(ss))
	for i, s := range ss {
		out[i] = domain.WorkMode(s)
	}
	return out
}

// ListSkills, ListCompanies, ListInstitutions, and ListLanguages page
// through the shared lookup nodes via the per-label repos. FilterOptions
// does not use them; it runs its own count queries.
func (g *GraphStore) ListSkills(ctx context.Context, opts repo.ListOpts) ([]domain.Skill, error) {
	out, err := g.skills.List(ctx, opts)
	if err != nil {
		return nil, domain.NewStoreUnavailable("ListSkills", "neo4j", err)
	}
	return out, nil
}

func (g *GraphStore) ListCompanies(ctx context.Context, opts repo.ListOpts) ([]domain.CompanyInfo, error) {
	out, err := g.companies.List(ctx, opts)
	if err != nil {
		return nil, domain.NewStoreUnavailable("ListCompanies", "neo4j", err)
	}
	return out, nil
}

func (g *GraphStore) ListInstitutions(ctx context.Context, opts repo.ListOpts) ([]domain.InstitutionInfo, error) {
	out, err := g.institutions.List(ctx, opts)
	if err != nil {
		return nil, domain.NewStoreUnavailable("ListInstitutions", "neo4j", err)
	}
	return out, nil
}

func (g *GraphStore) ListLanguages(ctx context.Context, opts repo.ListOpts) ([]domain.Language, error) {
	out, err := g.languages.List(ctx, opts)
	if err != nil {
		return nil, domain.NewStoreUnavailable("ListLanguages", "neo4j", err)
	}
	return out, nil
}

package ingest

import (
	"strings"

	"github.com/resumariner/engine/engine/domain"
)

// buildEmbeddingPoints extracts the embedding texts for a resume in the
// deterministic order fixed by spec §4.J: summary, then one item per
// skill, then one per employment key point, then one per project key
// point, then one per education extra. Every point carries the same
// resume-level searchable metadata (name, email, skills, technologies,
// companies, role, location, years_experience) regardless of its source,
// so filtered search can narrow on any of them. Vector/ID/UID are filled
// in by the caller after embedding and uid resolution.
func buildEmbeddingPoints(r domain.Resume) []domain.EmbeddingPoint {
	meta := resumeMetadata(r)

	var points []domain.EmbeddingPoint
	add := func(text string, source domain.EmbeddingSource, context string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		p := meta
		p.Text = text
		p.Source = source
		p.Context = context
		points = append(points, p)
	}

	add(r.Profile.Summary, domain.SourceSummary, "")

	for _, s := range r.Skills {
		add(s.Name, domain.SourceSkill, "")
	}

	for _, e := range r.EmploymentHistory {
		for _, kp := range e.KeyPoints {
			add(kp.Text, domain.SourceEmployment, e.Position)
		}
	}

	for _, proj := range r.Projects {
		for _, kp := range proj.KeyPoints {
			add(kp.Text, domain.SourceProject, proj.Title)
		}
	}

	for _, ed := range r.Education {
		context := ed.Institution.Name
		if ed.Qualification != "" {
			context = ed.Qualification + " at " + ed.Institution.Name
		}
		for _, extra := range ed.Extras {
			add(extra.Text, domain.SourceEducation, context)
		}
	}

	return points
}

// resumeMetadata builds the shared searchable-metadata fields attached to
// every embedding point for this resume.
func resumeMetadata(r domain.Resume) domain.EmbeddingPoint {
	var skills []string
	for _, s := range r.Skills {
		skills = append(skills, s.Name)
	}

	techSeen := map[string]bool{}
	var technologies []string
	addTech := func(ts []domain.Technology) {
		for _, t := range ts {
			if t.Name == "" || techSeen[t.Name] {
				continue
			}
			techSeen[t.Name] = true
			technologies = append(technologies, t.Name)
		}
	}

	var companies []string
	totalMonths := 0
	for _, e := range r.EmploymentHistory {
		if e.Company.Name != "" {
			companies = append(companies, e.Company.Name)
		}
		addTech(e.Technologies)
		totalMonths += e.Duration.DurationMonths
	}
	for _, p := range r.Projects {
		addTech(p.Technologies)
	}

	location := ""
	if r.PersonalInfo.Demographics != nil {
		loc := r.PersonalInfo.Demographics.Location
		switch {
		case loc.City != "" && loc.Country != "":
			location = loc.City + ", " + loc.Country
		case loc.Country != "":
			location = loc.Country
		case loc.City != "":
			location = loc.City
		}
	}

	return domain.EmbeddingPoint{
		Name:            r.PersonalInfo.Name,
		Email:           r.PersonalInfo.Contact.Email,
		Skills:          skills,
		Technologies:    technologies,
		Companies:       companies,
		Role:            r.Profile.Preferences.Role,
		Location:        location,
		YearsExperience: totalMonths / 12,
	}
}

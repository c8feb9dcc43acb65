package ingest

import (
	"testing"

	"github.com/resumariner/engine/engine/domain"
)

func sampleResumeForEmbedding() domain.Resume {
	return domain.Resume{
		UID: "uid-1",
		PersonalInfo: domain.PersonalInfo{
			Name:    "Ada Lovelace",
			Contact: domain.Contact{Email: "ada@example.com"},
			Demographics: &domain.Demographics{
				Location: domain.Location{City: "London", Country: "UK"},
			},
		},
		Profile: domain.ProfessionalProfile{
			Summary:     "Backend engineer focused on distributed systems.",
			Preferences: domain.JobPreferences{Role: "Staff Engineer"},
		},
		Skills: []domain.Skill{{Name: "Go"}, {Name: "Redis"}},
		EmploymentHistory: []domain.EmploymentHistoryItem{
			{
				Position: "Senior Engineer",
				Company:  domain.CompanyInfo{Name: "Analytical Engines Inc"},
				Duration: domain.EmploymentDuration{DurationMonths: 36},
				KeyPoints: []domain.KeyPoint{
					{Text: "Built the first queue-backed ingestion pipeline."},
					{Text: "Mentored three engineers."},
				},
				Technologies: []domain.Technology{{Name: "Go"}, {Name: "Kafka"}},
			},
		},
		Projects: []domain.Project{
			{
				Title: "Analytical Engine Simulator",
				KeyPoints: []domain.KeyPoint{
					{Text: "Simulated punched-card programs in software."},
				},
				Technologies: []domain.Technology{{Name: "Go"}, {Name: "WASM"}},
			},
		},
		Education: []domain.EducationItem{
			{
				Qualification: "BSc Mathematics",
				Institution:   domain.InstitutionInfo{Name: "Kings College"},
				Status:        domain.EducationCompleted,
				Extras:        []domain.EducationExtra{{Text: "First class honours."}},
			},
		},
	}
}

func TestBuildEmbeddingPointsOrderingAndSources(t *testing.T) {
	points := buildEmbeddingPoints(sampleResumeForEmbedding())

	wantSources := []domain.EmbeddingSource{
		domain.SourceSummary,
		domain.SourceSkill, domain.SourceSkill,
		domain.SourceEmployment, domain.SourceEmployment,
		domain.SourceProject,
		domain.SourceEducation,
	}
	if len(points) != len(wantSources) {
		t.Fatalf("expected %d points, got %d: %+v", len(wantSources), len(points), points)
	}
	for i, want := range wantSources {
		if points[i].Source != want {
			t.Fatalf("point %d: expected source %s, got %s", i, want, points[i].Source)
		}
	}

	if points[0].Text != "Backend engineer focused on distributed systems." {
		t.Fatalf("unexpected summary text: %q", points[0].Text)
	}
	if points[0].Context != "" {
		t.Fatalf("expected empty context on summary, got %q", points[0].Context)
	}

	employmentPoint := points[3]
	if employmentPoint.Context != "Senior Engineer" {
		t.Fatalf("expected employment context to be the position, got %q", employmentPoint.Context)
	}

	projectPoint := points[5]
	if projectPoint.Context != "Analytical Engine Simulator" {
		t.Fatalf("expected project context to be the title, got %q", projectPoint.Context)
	}

	educationPoint := points[6]
	if educationPoint.Context != "BSc Mathematics at Kings College" {
		t.Fatalf("expected education context to combine qualification and institution, got %q", educationPoint.Context)
	}
}

func TestBuildEmbeddingPointsSkipsBlankText(t *testing.T) {
	r := sampleResumeForEmbedding()
	r.EmploymentHistory[0].KeyPoints = append(r.EmploymentHistory[0].KeyPoints, domain.KeyPoint{Text: "   "})
	points := buildEmbeddingPoints(r)
	for _, p := range points {
		if p.Text == "" || p.Text == "   " {
			t.Fatalf("blank text leaked through: %+v", p)
		}
	}
}

func TestResumeMetadataAttachedToEveryPoint(t *testing.T) {
	points := buildEmbeddingPoints(sampleResumeForEmbedding())
	for _, p := range points {
		if p.Name != "Ada Lovelace" || p.Email != "ada@example.com" {
			t.Fatalf("expected resume-level name/email on every point, got %+v", p)
		}
		if p.Role != "Staff Engineer" {
			t.Fatalf("expected role on every point, got %q", p.Role)
		}
		if p.Location != "London, UK" {
			t.Fatalf("expected combined city/country location, got %q", p.Location)
		}
		if len(p.Skills) != 2 || len(p.Companies) != 1 {
			t.Fatalf("expected aggregated skills/companies on every point, got %+v", p)
		}
		if len(p.Technologies) != 3 {
			t.Fatalf("expected deduplicated technologies (Go, Kafka, WASM), got %v", p.Technologies)
		}
		if p.YearsExperience != 3 {
			t.Fatalf("expected 36 months -> 3 years, got %d", p.YearsExperience)
		}
	}
}

func TestResumeMetadataLocationFallsBackToCountryOnly(t *testing.T) {
	r := sampleResumeForEmbedding()
	r.PersonalInfo.Demographics.Location = domain.Location{Country: "UK"}
	meta := resumeMetadata(r)
	if meta.Location != "UK" {
		t.Fatalf("expected country-only location, got %q", meta.Location)
	}
}

func TestResumeMetadataNoDemographicsLeavesLocationEmpty(t *testing.T) {
	r := sampleResumeForEmbedding()
	r.PersonalInfo.Demographics = nil
	meta := resumeMetadata(r)
	if meta.Location != "" {
		t.Fatalf("expected empty location, got %q", meta.Location)
	}
}

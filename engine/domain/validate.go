package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateResume checks the invariants I1-I5 and enum membership. It does
// not check global uniqueness (I1, I2) — that requires the graph store and
// is enforced at upsert time, not at parse time.
func ValidateResume(r Resume) error {
	if strings.TrimSpace(r.PersonalInfo.Name) == "" {
		return NewValidationError("personal_info.name", r.PersonalInfo.Name, fmt.Errorf("name is required"))
	}
	email := strings.TrimSpace(r.PersonalInfo.Contact.Email)
	if email == "" {
		return NewValidationError("personal_info.contact.email", email, fmt.Errorf("email is required"))
	}
	if !emailRegex.MatchString(email) {
		return NewValidationError("personal_info.contact.email", email, fmt.Errorf("malformed email"))
	}

	for i, e := range r.EmploymentHistory {
		if err := validateEmploymentType(e.EmploymentType); err != nil {
			return fieldErr(fmt.Sprintf("employment_history[%d].employment_type", i), string(e.EmploymentType), err)
		}
		if err := validateWorkMode(e.WorkMode); err != nil {
			return fieldErr(fmt.Sprintf("employment_history[%d].work_mode", i), string(e.WorkMode), err)
		}
		if err := validateDuration(e.Duration); err != nil {
			return fieldErr(fmt.Sprintf("employment_history[%d].duration", i), e.Duration.Start, err)
		}
	}

	for i, ed := range r.Education {
		if !ValidEducationStatuses[ed.Status] {
			return fieldErr(fmt.Sprintf("education[%d].status", i), string(ed.Status), fmt.Errorf("unrecognized education status"))
		}
	}

	for i, l := range r.Languages {
		if l.CEFR != "" && !ValidCEFRLevels[l.CEFR] {
			return fieldErr(fmt.Sprintf("languages[%d].cefr", i), string(l.CEFR), fmt.Errorf("unrecognized CEFR level"))
		}
	}

	for i, a := range r.Awards {
		if a.AwardType != "" && !ValidAwardTypes[a.AwardType] {
			return fieldErr(fmt.Sprintf("awards[%d].award_type", i), string(a.AwardType), fmt.Errorf("unrecognized award type"))
		}
	}

	for i, s := range r.ScientificContributions {
		if s.PublicationType != "" && !ValidPublicationTypes[s.PublicationType] {
			return fieldErr(fmt.Sprintf("scientific_contributions[%d].publication_type", i), string(s.PublicationType), fmt.Errorf("unrecognized publication type"))
		}
	}

	if !r.CreatedAt.IsZero() && !r.UpdatedAt.IsZero() && r.CreatedAt.After(r.UpdatedAt) {
		return fieldErr("updated_at", r.UpdatedAt.String(), fmt.Errorf("updated_at precedes created_at (I4)"))
	}

	return nil
}

func validateEmploymentType(t EmploymentType) error {
	if t == "" || ValidEmploymentTypes[t] {
		return nil
	}
	return fmt.Errorf("unrecognized employment type")
}

func validateWorkMode(m WorkMode) error {
	if m == "" || ValidWorkModes[m] {
		return nil
	}
	return fmt.Errorf("unrecognized work mode")
}

// validateDuration enforces I5: duration_months is non-negative, and end
// (when present) is lexicographically >= start in YYYY.MM form when both
// share the same date_format.
func validateDuration(d EmploymentDuration) error {
	if d.DurationMonths < 0 {
		return fmt.Errorf("duration_months must be >= 0")
	}
	if d.End != "" && d.Start != "" && d.End < d.Start {
		return fmt.Errorf("end precedes start")
	}
	return nil
}

func fieldErr(field, value string, cause error) error {
	return NewValidationError(field, value, cause)
}

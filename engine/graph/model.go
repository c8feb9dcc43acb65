// Package graph implements the graph store adapter over Neo4j: Resume
// aggregate upsert, cascade delete, and lookups by uid/email.
package graph

// Node labels mirror the domain entities persisted by this package.
const (
	labelResume                 = "Resume"
	labelPersonalInfo           = "PersonalInfo"
	labelContact                = "Contact"
	labelContactLinks           = "ContactLinks"
	labelDemographics           = "Demographics"
	labelLocation               = "Location"
	labelWorkAuthorization      = "WorkAuthorization"
	labelProfessionalProfile    = "ProfessionalProfile"
	labelPreferences            = "Preferences"
	labelSkill                  = "Skill"
	labelEmploymentItem         = "EmploymentHistoryItem"
	labelCompany                = "CompanyInfo"
	labelDuration               = "EmploymentDuration"
	labelKeyPoint               = "KeyPoint"
	labelTechnology             = "Technology"
	labelProject                = "Project"
	labelEducationItem          = "EducationItem"
	labelInstitution            = "InstitutionInfo"
	labelCoursework             = "Coursework"
	labelExtra                  = "EducationExtra"
	labelCourse                 = "Course"
	labelCertification          = "Certification"
	labelAward                  = "Award"
	labelScientificContribution = "ScientificContribution"
	labelLanguageProficiency    = "LanguageProficiency"
	labelLanguage               = "Language"
)

// Relationship names, verbatim from the external-interfaces graph schema.
const (
	relHasPersonalInfo           = "HAS_PERSONAL_INFO"
	relHasContact                = "HAS_CONTACT"
	relHasLinks                  = "HAS_LINKS"
	relHasDemographics           = "HAS_DEMOGRAPHICS"
	relHasLocation               = "HAS_LOCATION"
	relHasWorkAuthorization      = "HAS_WORK_AUTHORIZATION"
	relHasProfessionalProfile    = "HAS_PROFESSIONAL_PROFILE"
	relHasPreferences            = "HAS_PREFERENCES"
	relHasSkill                  = "HAS_SKILL"
	relHasEmploymentHistory      = "HAS_EMPLOYMENT_HISTORY"
	relWorkedAt                  = "WORKED_AT"
	relHasDuration                = "HAS_DURATION"
	relLocatedAt                  = "LOCATED_AT"
	relHasKeyPoint                = "HAS_KEY_POINT"
	relUsesTechnology             = "USES_TECHNOLOGY"
	relHasProject                 = "HAS_PROJECT"
	relHasEducation               = "HAS_EDUCATION"
	relAttended                   = "ATTENDED"
	relIncludesCoursework         = "INCLUDES_COURSEWORK"
	relHasExtra                   = "HAS_EXTRA"
	relHasCourse                  = "HAS_COURSE"
	relHasCertification           = "HAS_CERTIFICATION"
	relHasAward                   = "HAS_AWARD"
	relHasScientificContribution  = "HAS_SCIENTIFIC_CONTRIBUTION"
	relHasLanguageProficiency     = "HAS_LANGUAGE_PROFICIENCY"
	relOfLanguage                 = "OF_LANGUAGE"
)

func strProp(props map[string]any, key string) string {
	if v, ok := props[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func intProp(props map[string]any, key string) int {
	if v, ok := props[key]; ok {
		switch n := v.(type) {
		case int64:
			return int(n)
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return 0
}

func boolProp(props map[string]any, key string) bool {
	if v, ok := props[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

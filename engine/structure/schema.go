package structure

// resumeSchemaJSON is the JSON schema embedded in every structuring prompt so
// the model knows the exact shape to return. It mirrors domain.Resume minus
// uid, created_at, and updated_at, which are assigned downstream.
const resumeSchemaJSON = `{
  "type": "object",
  "required": ["personal_info"],
  "properties": {
    "personal_info": {
      "type": "object",
      "required": ["name", "contact"],
      "properties": {
        "name": {"type": "string"},
        "resume_lang": {"type": "string"},
        "contact": {
          "type": "object",
          "required": ["email"],
          "properties": {
            "email": {"type": "string"},
            "phone": {"type": "string"},
            "links": {
              "type": "object",
              "properties": {
                "linkedin": {"type": "string"},
                "github": {"type": "string"},
                "website": {"type": "string"},
                "other": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        },
        "demographics": {
          "type": ["object", "null"],
          "properties": {
            "location": {
              "type": "object",
              "properties": {
                "country": {"type": ["string", "null"]},
                "city": {"type": ["string", "null"]}
              }
            },
            "work_authorization": {
              "type": "object",
              "properties": {
                "country": {"type": "string"},
                "status": {"type": "string"},
                "requires_sponsorship": {"type": "boolean"}
              }
            }
          }
        }
      }
    },
    "profile": {
      "type": "object",
      "properties": {
        "summary": {"type": "string"},
        "preferences": {
          "type": "object",
          "properties": {
            "role": {"type": "string"},
            "employment_types": {
              "type": "array",
              "items": {"enum": ["full_time", "part_time", "contract", "internship", "freelance"]}
            },
            "work_modes": {
              "type": "array",
              "items": {"enum": ["onsite", "remote", "hybrid"]}
            },
            "salary": {"type": "string"}
          }
        }
      }
    },
    "skills": {
      "type": "array",
      "items": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}
    },
    "employment_history": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["position", "company", "duration"],
        "properties": {
          "position": {"type": "string"},
          "employment_type": {"enum": ["full_time", "part_time", "contract", "internship", "freelance", ""]},
          "work_mode": {"enum": ["onsite", "remote", "hybrid", ""]},
          "company": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
          "duration": {
            "type": "object",
            "required": ["start", "duration_months"],
            "properties": {
              "date_format": {"type": "string"},
              "start": {"type": "string"},
              "end": {"type": "string"},
              "duration_months": {"type": "integer"}
            }
          },
          "location": {
            "type": "object",
            "properties": {"country": {"type": ["string", "null"]}, "city": {"type": ["string", "null"]}}
          },
          "key_points": {"type": "array", "items": {"type": "object", "properties": {"text": {"type": "string"}}}},
          "technologies": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}}
        }
      }
    },
    "projects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "url": {"type": "string"},
          "technologies": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}},
          "key_points": {"type": "array", "items": {"type": "object", "properties": {"text": {"type": "string"}}}}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["qualification", "institution", "status"],
        "properties": {
          "qualification": {"type": "string"},
          "field": {"type": "string"},
          "institution": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
          "status": {"enum": ["completed", "ongoing", "incomplete"]},
          "coursework": {"type": "array", "items": {"type": "object", "properties": {"name": {"type": "string"}}}},
          "extras": {"type": "array", "items": {"type": "object", "properties": {"text": {"type": "string"}}}}
        }
      }
    },
    "courses": {
      "type": "array",
      "items": {"type": "object", "properties": {"name": {"type": "string"}, "provider": {"type": "string"}, "year": {"type": "string"}}}
    },
    "certifications": {
      "type": ["array", "null"],
      "items": {"type": "object", "properties": {"name": {"type": "string"}, "issuer": {"type": "string"}, "year": {"type": "string"}}}
    },
    "languages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["language"],
        "properties": {
          "language": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
          "self_assessed": {"type": "boolean"},
          "cefr": {"enum": ["A1", "A2", "B1", "B2", "C1", "C2", "Native", ""]}
        }
      }
    },
    "awards": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "award_type": {"enum": ["hackathon", "competition", "recognition", "scholarship", "other", ""]},
          "year": {"type": "string"},
          "issuer": {"type": "string"}
        }
      }
    },
    "scientific_contributions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "publication_type": {"enum": ["journal_article", "conference_paper", "patent", "thesis", "technical_report", "other", ""]},
          "venue": {"type": "string"},
          "year": {"type": "string"},
          "url": {"type": "string"}
        }
      }
    }
  }
}`

package domain

import "encoding/json"

// Legacy-field normalization. The content structurer's LLM output, and
// resumes re-submitted from older clients, sometimes carry alternate JSON
// shapes: a bare string where a named object is expected, flat date fields
// instead of a nested duration, demographics fields promoted to the top
// level. Rather than rejecting these shapes, normalize them into the
// canonical Resume JSON before unmarshaling. Each function below handles
// exactly one legacy shape; there is no reflection-based generalization,
// per the design note this mirrors.

// NormalizePersonalInfo folds the legacy top-level demographics fields
// (current_location, work_authorization) into personal_info.demographics.
func NormalizePersonalInfo(v map[string]any) map[string]any {
	_, hasLoc := v["current_location"]
	_, hasAuth := v["work_authorization"]
	if hasLoc || hasAuth {
		demo, _ := v["demographics"].(map[string]any)
		if demo == nil {
			demo = map[string]any{}
		}
		if hasLoc {
			if _, exists := demo["location"]; !exists {
				demo["location"] = v["current_location"]
			}
			delete(v, "current_location")
		}
		if hasAuth {
			if _, exists := demo["work_authorization"]; !exists {
				demo["work_authorization"] = v["work_authorization"]
			}
			delete(v, "work_authorization")
		}
		v["demographics"] = demo
	}
	return v
}

// NormalizeEmploymentHistoryItem folds a bare-string company, a tech_stack
// alias, flat start_date/end_date/date_format/duration_months fields, and
// bare-string key_points/technologies into their canonical object shapes.
func NormalizeEmploymentHistoryItem(v map[string]any) map[string]any {
	if name, ok := v["company"].(string); ok {
		v["company"] = map[string]any{"name": name}
	}
	if stack, ok := v["tech_stack"]; ok {
		if _, hasTech := v["technologies"]; !hasTech {
			v["technologies"] = stack
		}
		delete(v, "tech_stack")
	}
	_, hasStart := v["start_date"]
	_, hasEnd := v["end_date"]
	_, hasFmt := v["date_format"]
	_, hasMonths := v["duration_months"]
	if hasStart || hasEnd || hasFmt || hasMonths {
		dateFormat := "MM.YYYY"
		if f, ok := v["date_format"].(string); ok {
			dateFormat = f
		}
		start, _ := v["start_date"].(string)
		end, _ := v["end_date"].(string)
		var months any = 0
		if m, ok := v["duration_months"]; ok {
			months = m
		}
		v["duration"] = map[string]any{
			"date_format":     dateFormat,
			"start":           start,
			"end":             end,
			"duration_months": months,
		}
		delete(v, "start_date")
		delete(v, "end_date")
		delete(v, "date_format")
		delete(v, "duration_months")
	}
	if kps, ok := v["key_points"].([]any); ok {
		v["key_points"] = wrapStringList(kps, "text")
	}
	if techs, ok := v["technologies"].([]any); ok {
		v["technologies"] = wrapStringList(techs, "name")
	}
	return v
}

// NormalizeProject folds tech_stack, bare-string technologies, and
// bare-string key_points into their canonical shapes.
func NormalizeProject(v map[string]any) map[string]any {
	if stack, ok := v["tech_stack"]; ok {
		if _, hasTech := v["technologies"]; !hasTech {
			v["technologies"] = stack
		}
		delete(v, "tech_stack")
	}
	if techs, ok := v["technologies"].([]any); ok {
		v["technologies"] = wrapStringList(techs, "name")
	}
	if kps, ok := v["key_points"].([]any); ok {
		v["key_points"] = wrapStringList(kps, "text")
	}
	return v
}

// NormalizeEducationItem folds a bare-string institution, start_date/
// end_date aliases, and bare-string coursework/extras into their canonical
// shapes.
func NormalizeEducationItem(v map[string]any) map[string]any {
	if name, ok := v["institution"].(string); ok {
		v["institution"] = map[string]any{"name": name}
	}
	if sd, ok := v["start_date"]; ok {
		if _, has := v["start"]; !has {
			v["start"] = sd
		}
		delete(v, "start_date")
	}
	if ed, ok := v["end_date"]; ok {
		if _, has := v["end"]; !has {
			v["end"] = ed
		}
		delete(v, "end_date")
	}
	if cw, ok := v["coursework"].([]any); ok {
		v["coursework"] = wrapStringList(cw, "name")
	}
	if ex, ok := v["extras"].([]any); ok {
		v["extras"] = wrapStringList(ex, "text")
	}
	return v
}

// NormalizeLanguageProficiency folds a bare-string language into the
// canonical {name: ...} object.
func NormalizeLanguageProficiency(v map[string]any) map[string]any {
	if name, ok := v["language"].(string); ok {
		v["language"] = map[string]any{"name": name}
	}
	return v
}

// NormalizeResumeRoot folds a legacy top-level summary/preferences pair
// into a nested profile object, and bare-string skills into the canonical
// {name: ...} object.
func NormalizeResumeRoot(v map[string]any) map[string]any {
	_, hasSummary := v["summary"]
	_, hasPrefs := v["preferences"]
	if _, hasProfile := v["profile"]; !hasProfile && (hasSummary || hasPrefs) {
		v["profile"] = map[string]any{
			"summary":     v["summary"],
			"preferences": v["preferences"],
		}
		delete(v, "summary")
		delete(v, "preferences")
	}
	if skills, ok := v["skills"].([]any); ok {
		v["skills"] = wrapStringList(skills, "name")
	}
	return v
}

// wrapStringList converts a mixed list of bare strings and objects into a
// list of objects, wrapping any bare string under field.
func wrapStringList(items []any, field string) []any {
	out := make([]any, len(items))
	for i, it := range items {
		if s, ok := it.(string); ok {
			out[i] = map[string]any{field: s}
			continue
		}
		out[i] = it
	}
	return out
}

// ParseResumeJSON normalizes known legacy field shapes in raw and
// unmarshals the result into a Resume. It is the single entry point the
// content structurer and ingestion worker use to turn LLM or re-submitted
// JSON into a domain Resume.
func ParseResumeJSON(raw []byte) (Resume, error) {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Resume{}, NewParseError("ParseResumeJSON", "root", err)
	}

	generic = NormalizeResumeRoot(generic)
	if pi, ok := generic["personal_info"].(map[string]any); ok {
		generic["personal_info"] = NormalizePersonalInfo(pi)
	}
	if history, ok := generic["employment_history"].([]any); ok {
		for i, item := range history {
			if m, ok := item.(map[string]any); ok {
				history[i] = NormalizeEmploymentHistoryItem(m)
			}
		}
	}
	if projects, ok := generic["projects"].([]any); ok {
		for i, item := range projects {
			if m, ok := item.(map[string]any); ok {
				projects[i] = NormalizeProject(m)
			}
		}
	}
	if education, ok := generic["education"].([]any); ok {
		for i, item := range education {
			if m, ok := item.(map[string]any); ok {
				education[i] = NormalizeEducationItem(m)
			}
		}
	}
	if languages, ok := generic["languages"].([]any); ok {
		for i, item := range languages {
			if m, ok := item.(map[string]any); ok {
				languages[i] = NormalizeLanguageProficiency(m)
			}
		}
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return Resume{}, NewParseError("ParseResumeJSON", "root", err)
	}

	var r Resume
	if err := json.Unmarshal(normalized, &r); err != nil {
		return Resume{}, NewParseError("ParseResumeJSON", "root", err)
	}
	if err := ValidateResume(r); err != nil {
		return Resume{}, err
	}
	return r, nil
}

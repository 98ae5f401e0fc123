package candidate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// emailPattern matches a syntactically plausible address. Deliverability is
// not checked here.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError enumerates the candidate fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid candidate fields: %s", strings.Join(e.Fields, ", "))
}

// Validate enforces the candidate schema on a loosely-typed record and returns
// a normalized Candidate. Missing fields receive defaults; an email that is
// present but malformed, or a matchScore that cannot be coerced to a number,
// fail with a ValidationError. An empty-string email counts as absent.
func Validate(raw map[string]any) (*Candidate, error) {
	var invalid []string

	c := &Candidate{
		ID:          coerceString(raw["id"]),
		Name:        coerceString(raw["name"]),
		Phone:       coerceString(raw["phone"]),
		Location:    coerceString(raw["location"]),
		CurrentRole: coerceString(raw["currentRole"]),
		Company:     coerceString(raw["company"]),
		Experience:  coerceString(raw["experience"]),
		Education:   coerceString(raw["education"]),
		ProfileURL:  coerceString(raw["profileUrl"]),
		Summary:     coerceString(raw["summary"]),
		Source:      coerceString(raw["source"]),
		Notes:       coerceString(raw["notes"]),
	}

	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.CurrentRole == "" {
		c.CurrentRole = DefaultRole
	}
	if c.Company == "" {
		c.Company = DefaultCompany
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}

	if email := coerceString(raw["email"]); email != "" {
		if emailPattern.MatchString(email) {
			c.Email = email
		} else {
			invalid = append(invalid, "email")
		}
	}

	score, ok := coerceScore(raw["matchScore"])
	if !ok {
		invalid = append(invalid, "matchScore")
	}
	c.MatchScore = ClampScore(score)

	c.Skills = CoerceSkills(raw["skills"])

	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	return c, nil
}

// ClampScore clamps a match score into [0, 100].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CoerceSkills coerces a loosely-typed skills value into a string slice. A
// scalar string is split on commas when present, otherwise on whitespace. The
// result is never nil and preserves input order.
func CoerceSkills(v any) []string {
	skills := []string{}

	switch val := v.(type) {
	case nil:
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				skills = append(skills, s)
			}
		}
	case string:
		parts := strings.Fields(val)
		if strings.Contains(val, ",") {
			parts = strings.Split(val, ",")
		}
		for _, s := range parts {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	default:
		if s := coerceString(v); s != "" {
			skills = append(skills, s)
		}
	}

	return skills
}

// coerceScore turns a loosely-typed match score into a number. Numeric values
// pass through, numeric strings are parsed, nil and non-numeric strings
// default to 0. Structured values (objects, arrays) cannot be scored.
func coerceScore(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, true
		}
		return f, true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, true
		}
		return f, true
	default:
		return 0, false
	}
}

// coerceString stringifies a loosely-typed scalar, trimming whitespace.
// Structured values are rendered as JSON.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return strings.TrimSpace(fmt.Sprintf("%v", v))
		}
		return string(data)
	}
}

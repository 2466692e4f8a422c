package shared

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"hrportal/internal/transport/http/api"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues for one request payload.
type Validator struct {
	issues []FieldIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	v.issues = append(v.issues, FieldIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Enum accepts an empty value; pair it with Required when the field is mandatory.
func (v *Validator) Enum(field, value string, allowed []string, reason string) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value != "" && !slices.Contains(allowed, value) {
		v.Add(field, reason)
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	at, err := ParseDeadline(raw)
	if err != nil {
		v.Add(field, "must be YYYY-MM-DD or RFC3339")
		return time.Time{}, false
	}
	return at, true
}

// Percent checks a required value on the 0 to 100 scale used by skills and courses.
func (v *Validator) Percent(field string, value *float64) {
	switch {
	case value == nil:
		v.Add(field, "is required")
	case *value < 0 || *value > 100:
		v.Add(field, "must be between 0 and 100")
	}
}

func (v *Validator) Issues() []FieldIssue {
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b FieldIssue) int {
		return strings.Compare(a.Field, b.Field)
	})
	return out
}

// Reject writes a validation_error response when issues were collected.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if len(v.issues) == 0 {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": v.Issues()}, requestID)
	return true
}

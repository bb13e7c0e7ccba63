// Package validate collects per-field payload issues and turns them into a
// single validation error.
package validate

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"

	"hrms/internal/domain/apperr"
)

type Validator struct {
	issues []apperr.FieldIssue
}

func New() *Validator {
	return &Validator{issues: make([]apperr.FieldIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, apperr.FieldIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
		return false
	}
	return true
}

func (v *Validator) MinLen(field, value string, n int) {
	if len([]rune(strings.TrimSpace(value))) < n {
		v.Add(field, "must be at least "+itoa(n)+" characters")
	}
}

func (v *Validator) MaxLen(field, value string, n int) {
	if len([]rune(value)) > n {
		v.Add(field, "must be at most "+itoa(n)+" characters")
	}
}

// Enum accepts an empty value; pair it with Required when the field is mandatory.
func (v *Validator) Enum(field, value string, allowed []string) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return
	}
	for _, candidate := range allowed {
		if normalized == strings.ToLower(strings.TrimSpace(candidate)) {
			return
		}
	}
	v.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (v *Validator) Email(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		v.Add(field, "must be a valid email address")
	}
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func (v *Validator) Phone(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if !phonePattern.MatchString(value) {
		v.Add(field, "must be 10 to 15 digits with an optional leading +")
	}
}

func (v *Validator) NonNegative(field string, value float64) {
	if value < 0 {
		v.Add(field, "must not be negative")
	}
}

func (v *Validator) Range(field string, value, lo, hi float64) {
	if value < lo || value > hi {
		v.Add(field, "must be between "+ftoa(lo)+" and "+ftoa(hi))
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

// OptionalDate parses raw when present and returns nil for an empty value.
func (v *Validator) OptionalDate(field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) {
	if start.IsZero() || end.IsZero() {
		return
	}
	if end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []apperr.FieldIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]apperr.FieldIssue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Err returns nil when no issues were collected.
func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	return apperr.Validation("payload validation failed", v.Issues()...)
}

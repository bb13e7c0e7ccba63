// Package coerce holds JSON types that tolerate the loose input produced by
// browser forms.
package coerce

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"hrms/internal/domain/apperr"
)

// Number decodes from a JSON number or a numeric string. An empty string
// decodes to zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
		if raw == "" {
			*n = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !finite(parsed) {
			return apperr.Validation("must be numeric: " + strconv.Quote(raw))
		}
		*n = Number(parsed)
		return nil
	}
	var parsed float64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return apperr.Validation("must be numeric")
	}
	*n = Number(parsed)
	return nil
}

// finite reports false for NaN and the infinities, which ParseFloat accepts
// but Postgres NUMERIC and encoding/json cannot round-trip.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n Number) Float() float64 {
	return float64(n)
}

// Value returns the dereferenced number or zero when absent.
func Value(n *Number) float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// StringList decodes from a JSON array of strings or from a single string
// split on newlines and commas.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*l = SplitList(raw)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return apperr.Validation("must be a list of strings")
	}
	*l = clean(items)
	return nil
}

func SplitList(raw string) []string {
	return clean(strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	}))
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

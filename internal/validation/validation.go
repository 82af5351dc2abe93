package validation

import (
	"math"
	"sort"
	"strings"
)

// Violations maps a field name to a stable error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error is a pre-flight validation failure. It blocks the action before any
// record-store call is made; handlers surface the field map as-is.
type Error struct {
	Violations Violations
}

func NewError(v Violations) *Error { return &Error{Violations: v} }

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

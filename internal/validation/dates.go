package validation

import (
	"fmt"
	"strings"
	"time"
)

// The submission forms historically sent dates in two shapes: ISO and the
// local day/month/year convention. Both are normalized to a calendar date
// here, at the boundary, so the rest of the system only ever sees time.Time.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
}

// ParseDate parses a calendar date in any accepted textual form. The result
// is truncated to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, want YYYY-MM-DD or DD/MM/YYYY", s)
}

// Date parses a date field into dest, recording a validation error on failure.
func (v *Validator) Date(field, value string, dest *time.Time) {
	t, err := ParseDate(value)
	if err != nil {
		v.AddError(field, err.Error())
		return
	}
	*dest = t
}

package filter

import (
	"strings"
	"time"
)

// dateTimeLayouts lists the accepted timestamp forms, tried in order.
// Input is upper-cased first, so 't' and 'z' are accepted too.
// Forms without a zone are taken as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses an ISO 8601 date or date-time and returns it in UTC.
// Time-only and partial dates are rejected.
func ParseDateTime(text string) (time.Time, error) {
	s := strings.ToUpper(text)
	var firstErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

package dataprocessing

import (
	"strings"
	"time"
)

// Date layouts seen across the supported fleet exports. Order matters:
// unambiguous ISO forms first, then US month-first forms.
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// parseDate parses a cell as a calendar timestamp. The boolean result
// is false for empty or unrecognized values.
func parseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses a normalized cell as a calendar timestamp, for
// callers outside this package that partition stored rows by date. The
// boolean result is false for empty or unrecognized values.
func ParseTimestamp(value string) (time.Time, bool) {
	return parseDate(value)
}

// formatDate renders a timestamp as the canonical ISO date stored in
// normalized tables.
func formatDate(ts time.Time) string {
	return ts.Format("2006-01-02")
}

// formatDateTime renders a timestamp with its time-of-day preserved.
func formatDateTime(ts time.Time) string {
	return ts.Format("2006-01-02 15:04:05")
}

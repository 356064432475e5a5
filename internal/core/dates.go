package core

import (
	"strings"
	"time"
)

// ParseCellDate parses a date cell against the descriptor layouts, in
// order. An unparseable cell yields the zero time as a sentinel: the row
// is then skipped by range comparison but stays in the set.
func ParseCellDate(layouts []string, value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseISODate parses a YYYY-MM-DD query parameter. The zero time means
// "no bound"; malformed input is treated the same way.
func ParseISODate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// dateOnly truncates a timestamp to its calendar day, so range comparisons
// discard the time component.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

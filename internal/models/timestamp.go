package models

import (
	"fmt"
	"strings"
	"time"
)

// Accepted ISO-8601 layouts. Timezone-naive strings are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts an ISO-8601 string to epoch seconds.
// A trailing "Z" and timezone-naive forms are both accepted.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty timestamp", ErrInvalidTimeRange)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
}

// ValidateTimeRange checks both bounds of a half-open [start, end) window
func ValidateTimeRange(start, end string) error {
	if _, err := ParseTimestamp(start); err != nil {
		return err
	}
	if _, err := ParseTimestamp(end); err != nil {
		return err
	}
	return nil
}

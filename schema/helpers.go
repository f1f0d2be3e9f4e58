package schema

import (
	"strings"
	"time"
)

// TimestampLayout is the layout used when the engine formats a time bound.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// timestampLayouts are tried in order when parsing a timestamp string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses an ISO-8601 style timestamp. Values without a zone are read as UTC.
// It reports false for empty or unparsable input.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp formats t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StanceFor labels a sentiment value using a symmetric threshold.
func StanceFor(sentiment, threshold float64) Stance {
	switch {
	case sentiment >= threshold:
		return StancePro
	case sentiment <= -threshold:
		return StanceAnti
	default:
		return StanceNeutral
	}
}

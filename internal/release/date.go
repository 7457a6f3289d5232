package release

import (
	"fmt"
	"time"
)

// iso8601Layouts are the accepted date forms, tried in order: a full
// RFC 3339 instant, an instant without a zone (assumed UTC), and a
// bare calendar date.
var iso8601Layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISO8601 parses an ISO 8601 date or timestamp string.
func ParseISO8601(s string) (time.Time, error) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date: %q", s)
}

// FormatISO8601 renders a UNIX timestamp as an RFC 3339 UTC string.
func FormatISO8601(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

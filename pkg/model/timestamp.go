package model

import (
	"strings"
	"time"

	apperrors "parking/pkg/errors"
)

// TimestampLayout is the canonical form of every persisted interval endpoint.
const TimestampLayout = "2006-01-02 15:04:05"

// NormalizeTimestamp accepts either the canonical layout or a date-time
// without seconds ("2006-01-02T15:04") and returns the canonical form. Other
// shapes come back unchanged and fail in ParseTimestamp.
func NormalizeTimestamp(s string) string {
	if !strings.Contains(s, "T") {
		return s
	}
	s = strings.Replace(s, "T", " ", 1)
	if len(s) == len("2006-01-02 15:04") {
		s += ":00"
	}
	return s
}

func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(TimestampLayout, s, loc)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid timestamp", map[string]any{
			"value":  s,
			"format": "YYYY-MM-DD HH:MM:SS",
		})
	}
	return t, nil
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

package utils

import (
	"strings"
	"time"
)

var scheduledDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseScheduledDate parses a scheduled test date from the handful of formats
// upload forms send. Returns the zero time when nothing matches.
func ParseScheduledDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}

	for _, layout := range scheduledDateLayouts {
		if parsed, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

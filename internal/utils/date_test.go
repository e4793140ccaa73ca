package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduledDate_AcceptedLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-01T10:30:00Z": time.Date(2024, time.June, 1, 10, 30, 0, 0, time.UTC),
		"2024-06-01T10:30:00":  time.Date(2024, time.June, 1, 10, 30, 0, 0, time.Local),
		"2024-06-01":           time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local),
		"01/06/2024":           time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local),
		"  2024-06-01  ":       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local),
	}

	for input, expected := range cases {
		parsed, ok := ParseScheduledDate(input)
		require.True(t, ok, "input %q", input)
		assert.True(t, expected.Equal(parsed), "input %q: got %v", input, parsed)
	}
}

func TestParseScheduledDate_Rejected(t *testing.T) {
	for _, input := range []string{"", "   ", "June 1st", "2024/06/01", "32/13/2024"} {
		parsed, ok := ParseScheduledDate(input)
		assert.False(t, ok, "input %q", input)
		assert.True(t, parsed.IsZero())
	}
}

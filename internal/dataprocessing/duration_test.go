package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"hms", "02:30:00", 2.5},
		{"hms no padding", "2:30:00", 2.5},
		{"hms with seconds", "1:15:30", 1.2583333333333333},
		{"fractional seconds", "0:00:30.5", 30.5 / 3600},
		{"hm only", "2:30", 2.5},
		{"decimal hours", "1.75", 1.75},
		{"integer hours", "3", 3.0},
		{"surrounding whitespace", "  4:45:00  ", 4.75},
		{"empty string", "", 0.0},
		{"nan placeholder", "nan", 0.0},
		{"malformed text", "not-a-time", 0.0},
		{"non numeric part", "2:xx:00", 0.0},
		{"too many parts", "1:2:3:4", 0.0},
		{"lone colon", ":", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseDuration(tt.input), 1e-9)
		})
	}
}

func TestSecondsToHMS(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{3600, "1:00:00"},
		{9000, "2:30:00"},
		{90061, "25:01:01"},
		{-5, "0:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, SecondsToHMS(tt.seconds))
		})
	}
}

// Parsing an H:MM:SS string and formatting the result back must
// reproduce the original string for canonical minute/second ranges.
func TestDurationRoundTrip(t *testing.T) {
	for _, s := range []string{"0:00:00", "0:30:15", "2:05:09", "14:59:59", "100:00:01"} {
		t.Run(s, func(t *testing.T) {
			hours := ParseDuration(s)
			assert.Equal(t, s, SecondsToHMS(int(hours*3600+0.5)))
		})
	}
}

func TestHoursToHMS(t *testing.T) {
	assert.Equal(t, "2:30:00", HoursToHMS(2.5))
	assert.Equal(t, "0:00:00", HoursToHMS(-1))
	assert.Equal(t, "1:20:00", HoursToHMS(ParseDuration(fmt.Sprintf("%d:20:00", 1))))
}

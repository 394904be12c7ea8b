package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts a duration cell to decimal hours. It accepts
// H:M:S strings (seconds may be fractional), H:M strings, and plain
// decimal-hour values. Empty, "nan" and malformed input all yield 0.0:
// a bad cell means "no duration reported" and must never abort a batch.
func ParseDuration(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0.0
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 3:
			hours, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			minutes, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			seconds, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return 0.0
			}
			return hours + minutes/60 + seconds/3600
		case 2:
			hours, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			minutes, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 != nil || err2 != nil {
				return 0.0
			}
			return hours + minutes/60
		default:
			return 0.0
		}
	}

	hours, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return hours
}

// SecondsToHMS formats a second count as "H:MM:SS" for display. Minutes
// and seconds are always zero-padded; hours never are. Negative input
// is clamped to zero.
func SecondsToHMS(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// HoursToHMS formats decimal hours as "H:MM:SS", rounding to the
// nearest second.
func HoursToHMS(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	return SecondsToHMS(int(hours*3600 + 0.5))
}

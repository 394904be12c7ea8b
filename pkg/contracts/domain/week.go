package domain

import "time"

// WeekWindow is an inclusive 7-day period beginning on a Monday.
// Boundaries are pure functions of the reference date and never depend
// on the data being aggregated.
type WeekWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MondayOf returns the Monday that starts the week containing day,
// truncated to midnight UTC. Dates are treated as timezone-free.
func MondayOf(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekOf derives the current-week window from a reference date by
// rounding it down to its Monday.
func WeekOf(ref time.Time) WeekWindow {
	start := MondayOf(ref)
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// Previous returns the 7-day window immediately preceding w.
func (w WeekWindow) Previous() WeekWindow {
	return WeekWindow{Start: w.Start.AddDate(0, 0, -7), End: w.Start.AddDate(0, 0, -1)}
}

// Contains reports whether day falls inside the window, inclusive on
// both ends.
func (w WeekWindow) Contains(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(w.Start) && !d.After(w.End)
}

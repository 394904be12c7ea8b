package domain

// CountDelta pairs a current-week count with its signed week-over-week
// change.
type CountDelta struct {
	Current int `json:"current"`
	Change  int `json:"change"`
}

// BreakdownEntry is one named row of a summary breakdown. Breakdowns
// are ordered slices rather than maps so that downstream renderers see
// a stable, meaningful order after JSON serialization.
type BreakdownEntry struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
	Change  int    `json:"change"`
}

// SummaryRecord is the week-over-week aggregation output for one
// report table. It is produced fresh on every aggregation call and
// never mutated afterward.
type SummaryRecord struct {
	TotalCurrent  int              `json:"total_current"`
	TotalPrevious int              `json:"total_previous"`
	TotalChange   int              `json:"total_change"`
	ByRegion      []BreakdownEntry `json:"by_region"`
	// ByType is sorted descending by Current; ties keep their original
	// category iteration order.
	ByType []BreakdownEntry `json:"by_type"`
}

// TrendRecord holds the 4-consecutive-Monday pivot of counts per
// category. Weeks are ISO dates, oldest first, and every series has
// exactly len(Weeks) buckets with zeros for empty weeks.
type TrendRecord struct {
	Weeks  []string         `json:"weeks"`
	Series map[string][]int `json:"data"`
}

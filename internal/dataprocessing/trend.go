package dataprocessing

import (
	"strings"
	"time"

	"fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

// trendWeeks is the number of Monday-anchored buckets in a trend pivot.
const trendWeeks = 4

// BuildTrend computes the 4-week trend pivot: counts per category for
// the four consecutive Monday-anchored weeks ending at the reference
// date's week, oldest first. Every category series has exactly four
// buckets; weeks without rows report 0, not absence.
//
// Unlike SummarizeWeek, a missing category axis is fatal here: the
// trend chart is meaningless without one.
func BuildTrend(t *Table, referenceDate time.Time) (domain.TrendRecord, error) {
	weekCol := resolveWeekColumn(t)
	categoryCol := t.ColumnIndex("violation_type")
	if weekCol < 0 || categoryCol < 0 {
		return domain.TrendRecord{}, errors.NewMissingColumnError(
			"week and violation_type columns required for trend analysis")
	}

	endMonday := domain.MondayOf(referenceDate)
	bucketIndex := make(map[time.Time]int, trendWeeks)
	labels := make([]string, trendWeeks)
	for i := 0; i < trendWeeks; i++ {
		monday := endMonday.AddDate(0, 0, -7*(trendWeeks-1-i))
		bucketIndex[monday] = i
		labels[i] = monday.Format("2006-01-02")
	}

	series := make(map[string][]int)
	for i := range t.Rows {
		ts, ok := parseDate(t.Cell(i, weekCol))
		if !ok {
			continue
		}
		bucket, ok := bucketIndex[domain.MondayOf(ts)]
		if !ok {
			continue
		}
		category := strings.TrimSpace(t.Cell(i, categoryCol))
		if category == "" {
			continue
		}
		counts, ok := series[category]
		if !ok {
			counts = make([]int, trendWeeks)
			series[category] = counts
		}
		counts[bucket]++
	}

	return domain.TrendRecord{Weeks: labels, Series: series}, nil
}

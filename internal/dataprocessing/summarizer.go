package dataprocessing

import (
	"sort"
	"strings"
	"time"

	"fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

// regionLookup maps a cleaned tag cell onto a canonical region name by
// exact match. canonicalRegions fixes the emission order.
var regionLookup = map[string]string{
	"great lakes": "Great Lakes",
	"ohio valley": "Ohio Valley",
	"midwest":     "Midwest",
	"southeast":   "Southeast",
}

var canonicalRegions = []string{"Great Lakes", "Ohio Valley", "Midwest", "Southeast"}

// resolveWeekColumn finds the date axis: a column named exactly "week",
// or failing that the first column whose normalized name starts with
// "week" (real exports carry headers like "Week Of 6/2/2025").
func resolveWeekColumn(t *Table) int {
	exact := -1
	prefix := -1
	for i, c := range t.Columns {
		n := NormalizeHeader(c)
		if n == "week" {
			exact = i
			break
		}
		if prefix < 0 && strings.HasPrefix(n, "week") {
			prefix = i
		}
	}
	if exact >= 0 {
		return exact
	}
	return prefix
}

// SummarizeWeek computes the week-over-week summary of a normalized
// table against a caller-supplied reference date. The current week is
// the Monday-anchored week containing the reference date; the previous
// week is the 7 days before it. Row membership is decided purely by the
// table's week column.
//
// The reference date must always come from the caller: this function
// never consults the wall clock.
func SummarizeWeek(t *Table, referenceDate time.Time) (domain.SummaryRecord, error) {
	weekCol := resolveWeekColumn(t)
	if weekCol < 0 {
		return domain.SummaryRecord{}, errors.NewMissingColumnError("week column required for summary")
	}
	tagCol := t.ColumnIndex("tags")
	categoryCol := t.ColumnIndex("violation_type")

	currentWeek := domain.WeekOf(referenceDate)
	previousWeek := currentWeek.Previous()

	var current, previous []int
	for i := range t.Rows {
		ts, ok := parseDate(t.Cell(i, weekCol))
		if !ok {
			continue
		}
		switch {
		case currentWeek.Contains(ts):
			current = append(current, i)
		case previousWeek.Contains(ts):
			previous = append(previous, i)
		}
	}

	record := domain.SummaryRecord{
		TotalCurrent:  len(current),
		TotalPrevious: len(previous),
		TotalChange:   len(current) - len(previous),
	}

	if tagCol >= 0 {
		record.ByRegion = regionBreakdown(t, tagCol, current, previous)
	}
	if categoryCol >= 0 {
		record.ByType = categoryBreakdown(t, categoryCol, current, previous)
	}

	return record, nil
}

// regionBreakdown counts rows per canonical region for both week
// subsets. Regions with neither current nor previous rows are omitted.
func regionBreakdown(t *Table, tagCol int, current, previous []int) []domain.BreakdownEntry {
	count := func(rows []int, region string) int {
		n := 0
		for _, i := range rows {
			if regionLookup[strings.ToLower(strings.TrimSpace(t.Cell(i, tagCol)))] == region {
				n++
			}
		}
		return n
	}

	var entries []domain.BreakdownEntry
	for _, region := range canonicalRegions {
		cur := count(current, region)
		prev := count(previous, region)
		if cur == 0 && prev == 0 {
			continue
		}
		entries = append(entries, domain.BreakdownEntry{Name: region, Current: cur, Change: cur - prev})
	}
	return entries
}

// categoryBreakdown unions the category values of both subsets and
// emits one entry per category, sorted descending by current count.
// The sort is stable: tied categories keep first-seen order.
func categoryBreakdown(t *Table, categoryCol int, current, previous []int) []domain.BreakdownEntry {
	curCounts := make(map[string]int)
	prevCounts := make(map[string]int)
	var order []string
	seen := make(map[string]bool)

	tally := func(rows []int, counts map[string]int) {
		for _, i := range rows {
			category := strings.TrimSpace(t.Cell(i, categoryCol))
			if category == "" {
				continue
			}
			counts[category]++
			if !seen[category] {
				seen[category] = true
				order = append(order, category)
			}
		}
	}
	tally(current, curCounts)
	tally(previous, prevCounts)

	entries := make([]domain.BreakdownEntry, 0, len(order))
	for _, category := range order {
		entries = append(entries, domain.BreakdownEntry{
			Name:    category,
			Current: curCounts[category],
			Change:  curCounts[category] - prevCounts[category],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Current > entries[j].Current
	})
	return entries
}

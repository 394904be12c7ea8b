package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

// Normalize renames a table's headers to canonical snake_case keys and
// coerces its values to the formats the aggregation layer expects for
// the given tag, driven by the tag's schema descriptor. The table is
// transformed in place and returned.
//
// Individual malformed cells degrade silently (zero hours, empty date);
// a missing identifying column is a schema error and fails the whole
// table.
func Normalize(tag domain.ReportType, t *Table) (*Table, error) {
	schema, ok := tagSchemas[tag]
	if !ok {
		return nil, errors.NewSchemaError(fmt.Sprintf("unknown report type %q", tag), nil)
	}

	normalize := NormalizeHeader
	if schema.stripParens {
		normalize = NormalizeHeaderStripParens
	}
	for i, c := range t.Columns {
		t.Columns[i] = normalize(c)
	}

	if err := schema.requireCheck(t); err != nil {
		return nil, err
	}

	for _, name := range schema.dateColumns {
		canonicalizeTimestamps(t, name, formatDate)
	}
	for _, name := range schema.datetimeColumns {
		canonicalizeTimestamps(t, name, formatDateTime)
	}

	for _, spec := range schema.durations {
		src := findColumn(t, spec.sourceContains...)
		if src < 0 {
			continue
		}
		values := make([]string, t.NumRows())
		for i := range t.Rows {
			values[i] = formatHours(ParseDuration(t.Cell(i, src)), spec.snapIntegers)
		}
		t.AddColumn(spec.target, values)
	}

	for _, name := range schema.floatColumns {
		if col := t.ColumnIndex(name); col >= 0 {
			for i := range t.Rows {
				t.SetCell(i, col, formatFloat(parseFloatLoose(t.Cell(i, col))))
			}
		}
	}
	for _, name := range schema.intColumns {
		if col := t.ColumnIndex(name); col >= 0 {
			for i := range t.Rows {
				t.SetCell(i, col, strconv.Itoa(int(parseFloatLoose(t.Cell(i, col)))))
			}
		}
	}
	for _, name := range schema.boolColumns {
		if col := t.ColumnIndex(name); col >= 0 {
			for i := range t.Rows {
				t.SetCell(i, col, coerceBool(t.Cell(i, col)))
			}
		}
	}
	for _, name := range schema.stringColumns {
		if col := t.ColumnIndex(name); col >= 0 {
			for i := range t.Rows {
				t.SetCell(i, col, scrubText(t.Cell(i, col)))
			}
		}
	}

	if schema.deriveSpanHours {
		deriveSpanHours(t)
	}

	return t, nil
}

// canonicalizeTimestamps rewrites a timestamp column in place using the
// given formatter. Unparseable cells become empty.
func canonicalizeTimestamps(t *Table, name string, format func(ts time.Time) string) {
	col := t.ColumnIndex(name)
	if col < 0 {
		return
	}
	for i := range t.Rows {
		ts, ok := parseDate(t.Cell(i, col))
		if !ok {
			t.SetCell(i, col, "")
			continue
		}
		t.SetCell(i, col, format(ts))
	}
}

// deriveSpanHours adds mistdvi's duration_hours column: the span between
// start_time and end_time when both parse, 0 otherwise.
func deriveSpanHours(t *Table) {
	start := t.ColumnIndex("start_time")
	end := t.ColumnIndex("end_time")
	if start < 0 || end < 0 {
		return
	}
	values := make([]string, t.NumRows())
	for i := range t.Rows {
		from, okFrom := parseDate(t.Cell(i, start))
		to, okTo := parseDate(t.Cell(i, end))
		if !okFrom || !okTo {
			values[i] = "0"
			continue
		}
		values[i] = formatFloat(to.Sub(from).Hours())
	}
	t.AddColumn("duration_hours", values)
}

// parseFloatLoose parses a numeric cell forgivingly: surrounding
// whitespace and thousands separators are dropped, and anything that
// still fails to parse counts as zero.
func parseFloatLoose(value string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" || strings.EqualFold(s, "nan") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// coerceBool maps a boolean-like safety-event cell onto "0"/"1".
// Numeric values keep their integer count; yes/true/1 text is truthy.
func coerceBool(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	switch s {
	case "yes", "true", "1":
		return "1"
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(v))
	}
	return "0"
}

// scrubText trims a free-text cell and clears the "nan" placeholder that
// spreadsheet round-trips leave behind.
func scrubText(value string) string {
	s := strings.TrimSpace(value)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// formatFloat renders a float in its shortest exact decimal form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatHours renders decimal hours, snapping whole hours to bare
// integers when asked ("2" rather than "2.0" in driver-facing tables).
func formatHours(hours float64, snapIntegers bool) string {
	if snapIntegers && hours == float64(int64(hours)) {
		return strconv.FormatInt(int64(hours), 10)
	}
	return formatFloat(hours)
}

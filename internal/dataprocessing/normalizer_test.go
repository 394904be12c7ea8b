package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

func buildTable(t *testing.T, columns []string, rows ...[]string) *Table {
	t.Helper()
	tbl := NewTable(columns)
	for _, row := range rows {
		tbl.AppendRow(row)
	}
	return tbl
}

func TestNormalize_HOS(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Driver Name", "Violation Type", "Tags", "Week Of 2024-03-04"},
		[]string{"Ann Lee", "Missing Certification", "Great Lakes", "2024-03-04"},
	)

	got, err := Normalize(domain.ReportTypeHOS, tbl)
	require.NoError(t, err)

	assert.Equal(t, []string{"driver_name", "violation_type", "tags", "week_of_2024-03-04"}, got.Columns)
	assert.Equal(t, "Missing Certification", got.Cell(0, 1))
}

func TestNormalize_HOSMissingViolationType(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Driver Name", "Tags"},
		[]string{"Ann Lee", "Great Lakes"},
	)

	_, err := Normalize(domain.ReportTypeHOS, tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestNormalize_SafetyInbox(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Time", "Vehicle", "Driver", "Event Type", "Status", "Review Status"},
		[]string{"03/05/2024 14:30:00", "Truck 12", "  Bo Ruiz ", "Harsh Brake", "nan", "Dismissed"},
	)

	got, err := Normalize(domain.ReportTypeSafetyInbox, tbl)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-05 14:30:00", got.Cell(0, 0))
	assert.Equal(t, "Bo Ruiz", got.Cell(0, 2), "free text is trimmed")
	assert.Equal(t, "", got.Cell(0, 4), "nan placeholder is scrubbed")
	assert.Equal(t, "Dismissed", got.Cell(0, 5))
}

func TestNormalize_SafetyInboxMissingDriver(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Time", "Event Type"},
		[]string{"2024-03-05", "Harsh Brake"},
	)

	_, err := Normalize(domain.ReportTypeSafetyInbox, tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestNormalize_PersonnelConveyance(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Driver Name", "Date", "Personal Conveyance (Duration)"},
		[]string{"Ann Lee", "03/04/2024", "02:30:00"},
		[]string{"Bo Ruiz", "2024-03-05", "3:00:00"},
		[]string{"Cy Park", "bad date", ""},
	)

	got, err := Normalize(domain.ReportTypePersonnelConveyance, tbl)
	require.NoError(t, err)

	// Parenthesized header collapses to the canonical key.
	require.True(t, got.HasColumn("personal_conveyance_duration"))

	hours := got.ColumnIndex("pc_hours")
	require.GreaterOrEqual(t, hours, 0, "derived pc_hours column is appended")
	assert.Equal(t, "2.5", got.Cell(0, hours))
	assert.Equal(t, "3", got.Cell(1, hours), "whole hours render without a decimal point")
	assert.Equal(t, "0", got.Cell(2, hours), "empty duration degrades to zero")

	date := got.ColumnIndex("date")
	assert.Equal(t, "2024-03-04", got.Cell(0, date))
	assert.Equal(t, "2024-03-05", got.Cell(1, date))
	assert.Equal(t, "", got.Cell(2, date), "unparseable date becomes empty")
}

func TestNormalize_UnassignedHOS(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Vehicle", "Date", "Unassigned Time", "Unassigned Segments", "Unassigned Distance"},
		[]string{"Truck 4", "2024-03-04", "1:30:00", "3.0", "12,450.5"},
		[]string{"Truck 9", "2024-03-05", "garbage", "x", ""},
	)

	got, err := Normalize(domain.ReportTypeUnassignedHOS, tbl)
	require.NoError(t, err)

	hours := got.ColumnIndex("unassigned_hours")
	require.GreaterOrEqual(t, hours, 0)
	assert.Equal(t, "1.5", got.Cell(0, hours))
	assert.Equal(t, "0", got.Cell(1, hours))

	segs := got.ColumnIndex("unassigned_segments")
	assert.Equal(t, "3", got.Cell(0, segs), "integer columns drop the trailing .0")
	assert.Equal(t, "0", got.Cell(1, segs))

	dist := got.ColumnIndex("unassigned_distance")
	assert.Equal(t, "12450.5", got.Cell(0, dist), "thousands separators are dropped")
}

func TestNormalize_UnassignedHOSRequiresMention(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Vehicle", "Date"},
		[]string{"Truck 4", "2024-03-04"},
	)

	_, err := Normalize(domain.ReportTypeUnassignedHOS, tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

func TestNormalize_MistDVI(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Vehicle", "Driver", "Start Time", "End Time", "Type"},
		[]string{"Truck 4", "Ann Lee", "2024-03-04 08:00:00", "2024-03-04 10:30:00", "Pre-trip"},
		[]string{"Truck 9", "Bo Ruiz", "not a time", "2024-03-05 09:00:00", "Post-trip"},
	)

	got, err := Normalize(domain.ReportTypeMistDVI, tbl)
	require.NoError(t, err)

	span := got.ColumnIndex("duration_hours")
	require.GreaterOrEqual(t, span, 0)
	assert.Equal(t, "2.5", got.Cell(0, span))
	assert.Equal(t, "0", got.Cell(1, span), "span is zero when either endpoint fails to parse")

	start := got.ColumnIndex("start_time")
	assert.Equal(t, "2024-03-04 08:00:00", got.Cell(0, start))
	assert.Equal(t, "", got.Cell(1, start))
}

func TestNormalize_DriverBehaviors(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Driver Name", "Safety Score", "Heavy Speeding Time (hh:mm:ss)", "Severe Speeding Time (hh:mm:ss)", "Max Speed (mph)"},
		[]string{"Ann Lee", "87", "0:45:00", "0:00:00", "71.5"},
	)

	got, err := Normalize(domain.ReportTypeDriverBehaviors, tbl)
	require.NoError(t, err)

	heavy := got.ColumnIndex("heavy_speeding_hours")
	require.GreaterOrEqual(t, heavy, 0)
	assert.Equal(t, "0.75", got.Cell(0, heavy))

	severe := got.ColumnIndex("severe_speeding_hours")
	require.GreaterOrEqual(t, severe, 0)
	assert.Equal(t, "0", got.Cell(0, severe))

	speed := got.ColumnIndex("max_speed_mph")
	require.GreaterOrEqual(t, speed, 0, "parenthesized unit folds into the key")
	assert.Equal(t, "71.5", got.Cell(0, speed))
}

func TestNormalize_DriverSafety(t *testing.T) {
	tbl := buildTable(t,
		[]string{"Trip ID", "Driver ID", "Harsh Brake", "No Seat Belt", "Forward Collision Warning", "Distance (mi)"},
		[]string{"t-1", "d-1", "Yes", "2", "no", "14.2"},
		[]string{"t-2", "d-2", "", "true", "1", "abc"},
	)

	got, err := Normalize(domain.ReportTypeDriverSafety, tbl)
	require.NoError(t, err)

	brake := got.ColumnIndex("harsh_brake")
	assert.Equal(t, "1", got.Cell(0, brake), "yes is truthy")
	assert.Equal(t, "0", got.Cell(1, brake), "empty is falsy")

	belt := got.ColumnIndex("no_seat_belt")
	assert.Equal(t, "2", got.Cell(0, belt), "numeric cells keep their count")
	assert.Equal(t, "1", got.Cell(1, belt))

	fcw := got.ColumnIndex("forward_collision_warning")
	assert.Equal(t, "0", got.Cell(0, fcw))
	assert.Equal(t, "1", got.Cell(1, fcw))

	dist := got.ColumnIndex("distance_mi")
	assert.Equal(t, "14.2", got.Cell(0, dist))
	assert.Equal(t, "0", got.Cell(1, dist), "unparseable numerics degrade to zero")
}

func TestNormalize_UnknownTag(t *testing.T) {
	tbl := buildTable(t, []string{"A"}, []string{"1"})

	_, err := Normalize(domain.ReportType("bogus"), tbl)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchemaError(err))
}

package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fleetsnap/internal/errors"
)

func TestBuildTrend_FourWeekPivot(t *testing.T) {
	ref := time.Date(2024, 3, 28, 12, 0, 0, 0, time.UTC) // week of Monday 2024-03-25

	tbl := hosTable()
	// Oldest bucket 2024-03-04, newest 2024-03-25.
	hosRow(tbl, "2024-03-04", "Shift Duty Limit", "Midwest")
	hosRow(tbl, "2024-03-04", "Shift Duty Limit", "Midwest")
	hosRow(tbl, "2024-03-11", "Shift Duty Limit", "Midwest")
	hosRow(tbl, "2024-03-25", "Shift Duty Limit", "Midwest")
	hosRow(tbl, "2024-03-18", "Missing Certification", "Midwest")

	got, err := BuildTrend(tbl, ref)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-04", "2024-03-11", "2024-03-18", "2024-03-25"}, got.Weeks)
	assert.Equal(t, []int{2, 1, 0, 1}, got.Series["Shift Duty Limit"])
	assert.Equal(t, []int{0, 0, 1, 0}, got.Series["Missing Certification"], "empty buckets report zero, not absence")
}

func TestBuildTrend_RowsOutsideWindowDropped(t *testing.T) {
	ref := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

	tbl := hosTable()
	hosRow(tbl, "2024-02-26", "Shift Duty Limit", "Midwest") // five weeks back
	hosRow(tbl, "2024-04-01", "Shift Duty Limit", "Midwest") // next week
	hosRow(tbl, "2024-03-25", "Shift Duty Limit", "Midwest")

	got, err := BuildTrend(tbl, ref)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 1}, got.Series["Shift Duty Limit"])
}

func TestBuildTrend_MidWeekDatesBucketByMonday(t *testing.T) {
	ref := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

	tbl := hosTable()
	hosRow(tbl, "2024-03-27", "Shift Duty Limit", "Midwest") // Wednesday of the newest week
	hosRow(tbl, "2024-03-13", "Shift Duty Limit", "Midwest") // Wednesday three weeks back

	got, err := BuildTrend(tbl, ref)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, got.Series["Shift Duty Limit"])
}

func TestBuildTrend_EmptyTable(t *testing.T) {
	got, err := BuildTrend(hosTable(), time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Len(t, got.Weeks, 4)
	assert.Empty(t, got.Series)
}

func TestBuildTrend_MissingColumns(t *testing.T) {
	ref := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

	noCategory := NewTable([]string{"week", "tags"})
	noCategory.AppendRow([]string{"2024-03-25", "Midwest"})
	_, err := BuildTrend(noCategory, ref)
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingColumnError(err))

	noWeek := NewTable([]string{"violation_type"})
	noWeek.AppendRow([]string{"Shift Duty Limit"})
	_, err = BuildTrend(noWeek, ref)
	require.Error(t, err)
	assert.True(t, apperrors.IsMissingColumnError(err))
}

func TestBuildTrend_SkipsBlankCategories(t *testing.T) {
	ref := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

	tbl := hosTable()
	hosRow(tbl, "2024-03-25", "  ", "Midwest")
	hosRow(tbl, "2024-03-25", "Shift Duty Limit", "Midwest")

	got, err := BuildTrend(tbl, ref)
	require.NoError(t, err)
	require.Len(t, got.Series, 1)
	assert.Equal(t, []int{0, 0, 0, 1}, got.Series["Shift Duty Limit"])
}

package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetsnap/pkg/contracts/domain"
)

func tableWithColumns(cols ...string) *Table {
	return NewTable(cols)
}

func TestDetectReportType_ColumnRules(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		filename string
		want     domain.ReportType
	}{
		{
			name:     "violation type column wins immediately",
			columns:  []string{"Driver Name", "Violation Type", "Tags", "Week Of 2024-01-01"},
			filename: "export.xlsx",
			want:     domain.ReportTypeHOS,
		},
		{
			name: "full safety inbox header set",
			columns: []string{
				"Time", "Vehicle", "Driver", "Driver Tags", "Event Type",
				"Status", "Location", "Event URL", "Assigned Coach",
				"Device Tags", "Review Status",
			},
			filename: "export.xlsx",
			want:     domain.ReportTypeSafetyInbox,
		},
		{
			name:     "partial safety inbox signals",
			columns:  []string{"Event Type", "Driver", "Review Status"},
			filename: "export.xlsx",
			want:     domain.ReportTypeSafetyInbox,
		},
		{
			name:     "personal conveyance with duration column",
			columns:  []string{"Driver Name", "Personal Conveyance (Duration)"},
			filename: "export.xlsx",
			want:     domain.ReportTypePersonnelConveyance,
		},
		{
			name:     "personal conveyance with driver name and date",
			columns:  []string{"Personal Conveyance", "Driver Name", "Date"},
			filename: "export.xlsx",
			want:     domain.ReportTypePersonnelConveyance,
		},
		{
			name:     "pc_duration shorthand",
			columns:  []string{"Driver", "PC_Duration"},
			filename: "export.xlsx",
			want:     domain.ReportTypePersonnelConveyance,
		},
		{
			name:     "unassigned time with vehicle",
			columns:  []string{"Vehicle", "Unassigned Time", "Unassigned Segments"},
			filename: "export.xlsx",
			want:     domain.ReportTypeUnassignedHOS,
		},
		{
			name:     "dvir keyword",
			columns:  []string{"Vehicle", "Missed DVIR Count"},
			filename: "export.xlsx",
			want:     domain.ReportTypeMistDVI,
		},
		{
			name:     "mistdvi structural columns",
			columns:  []string{"Vehicle", "Driver", "Start Time", "End Time", "Type"},
			filename: "export.xlsx",
			want:     domain.ReportTypeMistDVI,
		},
		{
			name:     "driver behavior in one header",
			columns:  []string{"Driver Behaviors", "Count"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverBehaviors,
		},
		{
			name:     "safety score with driver name",
			columns:  []string{"Driver Name", "Safety Score"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverBehaviors,
		},
		{
			name:     "speeding time with driver",
			columns:  []string{"Driver", "Light Speeding Time (hh:mm:ss)"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverBehaviors,
		},
		{
			name:     "driver safety score in one header",
			columns:  []string{"Driver Safety Score", "Rank"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverSafety,
		},
		{
			name:     "trip id with vehicle and driver",
			columns:  []string{"Trip ID", "Vehicle", "Driver"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverSafety,
		},
		{
			name:     "trip id with driver id and harsh signal",
			columns:  []string{"Trip ID", "Driver ID", "Harsh Brake Count"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverSafety,
		},
		{
			name:     "bare harsh accel column",
			columns:  []string{"Harsh Accel", "Count"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverSafety,
		},
		{
			name:     "three or more safety signals",
			columns:  []string{"Mobile Usage", "Drowsy", "Seat Belt Violations"},
			filename: "export.xlsx",
			want:     domain.ReportTypeDriverSafety,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := tableWithColumns(tt.columns...)
			got := DetectReportType(tbl, tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectReportType_RuleOrder(t *testing.T) {
	// "violation type" outranks every later signal even when the table also
	// carries safety-inbox columns.
	tbl := tableWithColumns("Violation Type", "Event Type", "Driver", "Review Status")
	assert.Equal(t, domain.ReportTypeHOS, DetectReportType(tbl, "mixed.xlsx"))

	// Harsh-turn columns appear in both behavior and safety exports; the
	// driver+behavior rule fires first.
	tbl = tableWithColumns("Driver Behavior Summary", "Harsh Turn Count")
	assert.Equal(t, domain.ReportTypeDriverBehaviors, DetectReportType(tbl, "mixed.xlsx"))
}

func TestDetectReportType_FilenameFallback(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     domain.ReportType
	}{
		{"hos violations report", "/exports/HOS Violations 2024-03-04.xlsx", domain.ReportTypeHOS},
		{"safety inbox export", "safety inbox march.csv", domain.ReportTypeSafetyInbox},
		{"missed dvir", "missed dvir week 10.xlsx", domain.ReportTypeMistDVI},
		{"driver behaviors", "driver behaviors q1.xlsx", domain.ReportTypeDriverBehaviors},
		{"driver safety", "driver safety scores.xlsx", domain.ReportTypeDriverSafety},
		{"unassigned hours", "unassigned hours by vehicle.xlsx", domain.ReportTypeUnassignedHOS},
		{"nothing recognizable", "data.xlsx", domain.ReportTypeHOS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Columns carry no classifiable signal, forcing the filename path.
			tbl := tableWithColumns("A", "B", "C")
			got := DetectReportType(tbl, tt.filename)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectReportType_Total(t *testing.T) {
	inputs := []*Table{
		tableWithColumns(),
		tableWithColumns(""),
		tableWithColumns("completely", "unrelated", "headers"),
		tableWithColumns("数量", "名前"),
	}
	for _, tbl := range inputs {
		got := DetectReportType(tbl, "")
		require.True(t, got.IsValid(), "classifier returned invalid tag %q", got)
	}
}

func TestDetectReportType_Deterministic(t *testing.T) {
	tbl := tableWithColumns("Driver", "Vehicle", "Trip ID", "Harsh Brake Count")
	first := DetectReportType(tbl, "trips.xlsx")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectReportType(tbl, "trips.xlsx"))
	}
}

func TestDetectReportType_SeparatorInsensitive(t *testing.T) {
	// Underscored headers classify the same as spaced ones.
	spaced := tableWithColumns("Personal Conveyance Duration", "Driver Name")
	underscored := tableWithColumns("personal_conveyance_duration", "driver_name")
	assert.Equal(t, DetectReportType(spaced, "f.xlsx"), DetectReportType(underscored, "f.xlsx"))
	assert.Equal(t, domain.ReportTypePersonnelConveyance, DetectReportType(underscored, "f.xlsx"))
}

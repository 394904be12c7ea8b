package dataprocessing

import (
	"fmt"

	"fleetsnap/internal/errors"
	"fleetsnap/pkg/contracts/domain"
)

// durationSpec derives a decimal-hours column from a duration-formatted
// source column located by substring match.
type durationSpec struct {
	// sourceContains locates the source column: first header mentioning
	// every substring.
	sourceContains []string
	// target is the derived column name.
	target string
	// snapIntegers renders whole-hour values without a decimal point,
	// matching how the legacy exports display them.
	snapIntegers bool
}

// tagSchema describes the normalization contract of one report type.
// One parametrized normalizer consumes these descriptors; the per-type
// differences live here, not in seven hand-written routines.
type tagSchema struct {
	// stripParens selects the header normalizer variant.
	stripParens bool

	// requireCheck validates that the identifying columns for this tag
	// survived normalization; its error is fatal for the table.
	requireCheck func(t *Table) error

	// dateColumns are canonicalized to ISO dates; datetimeColumns keep
	// their time of day.
	dateColumns     []string
	datetimeColumns []string

	durations []durationSpec

	// floatColumns and intColumns are coerced numerically with
	// unparseable cells degrading to zero.
	floatColumns []string
	intColumns   []string

	// boolColumns are coerced to 0/1, accepting yes/true/1 as truthy.
	boolColumns []string

	// stringColumns are trimmed and scrubbed of placeholder "nan" text.
	stringColumns []string

	// deriveSpanHours computes mistdvi's duration_hours from the
	// start/end timestamps.
	deriveSpanHours bool
}

func requireColumns(names ...string) func(t *Table) error {
	return func(t *Table) error {
		for _, name := range names {
			if !t.HasColumn(name) {
				return errors.NewSchemaError(
					fmt.Sprintf("required column %q is missing, got: %v", name, t.Columns), nil)
			}
		}
		return nil
	}
}

func requireColumnMention(substring string) func(t *Table) error {
	return func(t *Table) error {
		if !ColumnsContain(t, substring) {
			return errors.NewSchemaError(
				fmt.Sprintf("no column mentions %q, got: %v", substring, t.Columns), nil)
		}
		return nil
	}
}

// driverSafetyEventColumns are the boolean-like safety-event columns of
// a driver-safety trip export.
var driverSafetyEventColumns = []string{
	"harsh_accel", "harsh_brake", "harsh_turn", "mobile_usage",
	"inattentive_driving", "drowsy", "rolling_stop",
	"did_not_yield_manual", "ran_red_light_manual",
	"lane_departure_manual", "obstructed_camera_automatic",
	"obstructed_camera_manual", "eating/drinking_manual",
	"smoking_manual", "no_seat_belt", "forward_collision_warning",
}

var tagSchemas = map[domain.ReportType]tagSchema{
	domain.ReportTypeHOS: {
		// HOS violation exports need nothing beyond header
		// normalization; aggregation reads them as-is.
		requireCheck: requireColumns("violation_type"),
	},

	domain.ReportTypeSafetyInbox: {
		requireCheck:    requireColumns("event_type", "driver"),
		datetimeColumns: []string{"time"},
		stringColumns: []string{
			"vehicle", "driver", "driver_tags", "event_type", "status",
			"location", "assigned_coach", "device_tags", "review_status",
		},
	},

	domain.ReportTypePersonnelConveyance: {
		stripParens:  true,
		requireCheck: requireColumns("driver_name", "personal_conveyance_duration"),
		dateColumns:  []string{"date"},
		durations: []durationSpec{
			{
				sourceContains: []string{"personal", "duration"},
				target:         "pc_hours",
				snapIntegers:   true,
			},
		},
		stringColumns: []string{"driver_name", "eld_exempt", "eld_exempt_reason", "tags", "comments"},
	},

	domain.ReportTypeUnassignedHOS: {
		requireCheck: requireColumnMention("unassigned"),
		dateColumns:  []string{"date"},
		durations: []durationSpec{
			{sourceContains: []string{"unassigned", "time"}, target: "unassigned_hours"},
		},
		floatColumns:  []string{"unassigned_distance"},
		intColumns:    []string{"unassigned_segments", "pending_segments", "annotated_segments"},
		stringColumns: []string{"vehicle", "tags", "owner_of_the_time"},
	},

	domain.ReportTypeMistDVI: {
		requireCheck: func(t *Table) error {
			if t.HasColumn("vehicle") && t.HasColumn("driver") {
				return nil
			}
			for _, name := range []string{"vehicle", "driver", "dvir", "type"} {
				if t.HasColumn(name) {
					return nil
				}
			}
			return errors.NewSchemaError(
				fmt.Sprintf("missing required columns for missed-DVIR table, got: %v", t.Columns), nil)
		},
		datetimeColumns: []string{"start_time", "end_time"},
		stringColumns:   []string{"vehicle", "driver", "type"},
		deriveSpanHours: true,
	},

	domain.ReportTypeDriverBehaviors: {
		stripParens:  true,
		requireCheck: requireColumnMention("driver"),
		durations: []durationSpec{
			{sourceContains: []string{"heavy", "speeding", "time"}, target: "heavy_speeding_hours"},
			{sourceContains: []string{"severe", "speeding", "time"}, target: "severe_speeding_hours"},
		},
		floatColumns:  []string{"safety_score_rank", "safety_score", "harsh_turn_count", "max_speed_mph"},
		stringColumns: []string{"driver_name", "tags", "deactivation_status"},
	},

	domain.ReportTypeDriverSafety: {
		stripParens:     true,
		requireCheck:    func(t *Table) error { return nil },
		datetimeColumns: []string{"start_time", "end_time"},
		floatColumns:    []string{"distance_mi", "duration_min"},
		boolColumns:     driverSafetyEventColumns,
		stringColumns:   []string{"trip_id", "vehicle_id", "driver_id"},
	},
}

package dataprocessing

import (
	"path/filepath"
	"strings"

	"fleetsnap/pkg/contracts/domain"
)

// safetyInboxColumns is the fixed header set of a Samsara safety-inbox
// export. A table carrying a superset of these is classified without
// looking at anything else.
var safetyInboxColumns = []string{
	"Time",
	"Vehicle",
	"Driver",
	"Driver Tags",
	"Event Type",
	"Status",
	"Location",
	"Event URL",
	"Assigned Coach",
	"Device Tags",
	"Review Status",
}

// columnRule is one step of the classifier cascade.
type columnRule struct {
	tag   domain.ReportType
	match func(keys []string) bool
}

// The cascade is ordered and short-circuiting: rules overlap (several
// report types carry "harsh turn" columns) and reordering them changes
// classification outcomes on real files. Do not reorder.
var columnRules = []columnRule{
	{domain.ReportTypeHOS, func(keys []string) bool {
		return anyContains(keys, "violation type")
	}},
	{domain.ReportTypeSafetyInbox, func(keys []string) bool {
		for _, c := range safetyInboxColumns {
			if !hasKey(keys, c) {
				return false
			}
		}
		return true
	}},
	{domain.ReportTypeSafetyInbox, func(keys []string) bool {
		if !anyContains(keys, "event type") || !anyContains(keys, "driver") {
			return false
		}
		for _, s := range []string{"vehicle", "status", "review status", "event url"} {
			if anyContains(keys, s) {
				return true
			}
		}
		return false
	}},
	{domain.ReportTypePersonnelConveyance, func(keys []string) bool {
		if !anyContains(keys, "personal conveyance") {
			return false
		}
		if anyContains(keys, "personal conveyance (duration)") || anyContains(keys, "personal conveyance duration") {
			return true
		}
		return anyContains(keys, "driver name") && anyContains(keys, "date")
	}},
	{domain.ReportTypePersonnelConveyance, func(keys []string) bool {
		return anyContains(keys, "pc_duration")
	}},
	{domain.ReportTypeUnassignedHOS, func(keys []string) bool {
		unassignedTime := false
		for _, k := range keys {
			if strings.Contains(k, "unassigned") && (strings.Contains(k, "time") || strings.Contains(k, "segments")) {
				unassignedTime = true
				break
			}
		}
		if !unassignedTime {
			return false
		}
		return anyContains(keys, "vehicle") ||
			anyContains(keys, "unassigned segments") || anyContains(keys, "unassigned time")
	}},
	{domain.ReportTypeMistDVI, func(keys []string) bool {
		return anyContains(keys, "mistdvi") || anyContains(keys, "missed dvir") || anyContains(keys, "dvir")
	}},
	{domain.ReportTypeMistDVI, func(keys []string) bool {
		for _, c := range []string{"vehicle", "driver", "start time", "end time", "type"} {
			if !hasKey(keys, c) {
				return false
			}
		}
		return true
	}},
	{domain.ReportTypeDriverBehaviors, func(keys []string) bool {
		return anyContainsAll(keys, "driver", "behavior")
	}},
	{domain.ReportTypeDriverBehaviors, func(keys []string) bool {
		return anyContains(keys, "safety score") && anyContains(keys, "driver name")
	}},
	{domain.ReportTypeDriverBehaviors, func(keys []string) bool {
		if !anyContains(keys, "harsh turn") && !anyContains(keys, "speeding time") {
			return false
		}
		return anyContains(keys, "driver")
	}},
	{domain.ReportTypeDriverSafety, func(keys []string) bool {
		return anyContainsAll(keys, "driver", "safety", "score")
	}},
	{domain.ReportTypeDriverSafety, func(keys []string) bool {
		return anyContains(keys, "trip id") &&
			anyContains(keys, "vehicle") && anyContains(keys, "driver")
	}},
	{domain.ReportTypeDriverSafety, func(keys []string) bool {
		if !anyContains(keys, "trip id") || !anyContains(keys, "driver id") {
			return false
		}
		return anyContains(keys, "harsh") || anyContains(keys, "collision") || anyContains(keys, "seat belt")
	}},
	{domain.ReportTypeDriverSafety, func(keys []string) bool {
		return anyContains(keys, "harsh accel") || anyContains(keys, "harsh brake") || anyContains(keys, "harsh turn")
	}},
	{domain.ReportTypeDriverSafety, func(keys []string) bool {
		signals := []string{"harsh accel", "harsh brake", "harsh turn", "mobile usage", "drowsy", "seat belt"}
		n := 0
		for _, k := range keys {
			for _, s := range signals {
				if strings.Contains(k, s) {
					n++
					break
				}
			}
		}
		return n >= 3
	}},
}

// filenameRule is one step of the filename fallback, consulted only
// when no column rule fired.
type filenameRule struct {
	tag   domain.ReportType
	match func(stem string) bool
}

var filenameRules = []filenameRule{
	{domain.ReportTypeHOS, func(s string) bool {
		return strings.Contains(s, "hos") && strings.Contains(s, "violation")
	}},
	{domain.ReportTypeSafetyInbox, func(s string) bool {
		return strings.Contains(s, "safety") && strings.Contains(s, "inbox")
	}},
	{domain.ReportTypeMistDVI, func(s string) bool {
		return strings.Contains(s, "mistdvi") || strings.Contains(s, "missed dvir") ||
			(strings.Contains(s, "dvir") && strings.Contains(s, "miss"))
	}},
	{domain.ReportTypeDriverBehaviors, func(s string) bool {
		return strings.Contains(s, "safety behavior") || strings.Contains(s, "driver behavior")
	}},
	{domain.ReportTypeDriverSafety, func(s string) bool {
		return strings.Contains(s, "driver safety") && !strings.Contains(s, "behavior")
	}},
	{domain.ReportTypeUnassignedHOS, func(s string) bool {
		return strings.Contains(s, "unassigned") &&
			(strings.Contains(s, "hos") || strings.Contains(s, "hours"))
	}},
}

// DetectReportType classifies a table by its column set, falling back to
// filename signals and finally to the hos tag. It is total: every input
// gets exactly one of the defined tags, and repeated calls on the same
// input return the same tag.
//
// An unrecognized novel file therefore silently becomes an hos table
// rather than an error. That default is a product decision carried over
// from the legacy pipeline; see DESIGN.md before changing it.
func DetectReportType(t *Table, filename string) domain.ReportType {
	keys := matchKeys(t.Columns)

	for _, rule := range columnRules {
		if rule.match(keys) {
			return rule.tag
		}
	}

	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	for _, rule := range filenameRules {
		if rule.match(stem) {
			return rule.tag
		}
	}

	return domain.ReportTypeHOS
}

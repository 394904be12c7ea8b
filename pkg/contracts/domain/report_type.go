package domain

// ReportType is the classification label assigned to an uploaded
// compliance spreadsheet. Exactly one tag is assigned per table and the
// classifier is total: unrecognized files resolve to ReportTypeHOS.
type ReportType string

const (
	ReportTypeHOS                 ReportType = "hos"
	ReportTypeSafetyInbox         ReportType = "safety_inbox"
	ReportTypePersonnelConveyance ReportType = "personnel_conveyance"
	ReportTypeUnassignedHOS       ReportType = "unassigned_hos"
	ReportTypeMistDVI             ReportType = "mistdvi"
	ReportTypeDriverBehaviors     ReportType = "driver_behaviors"
	ReportTypeDriverSafety        ReportType = "driver_safety"
)

// AllReportTypes returns every defined report type tag.
func AllReportTypes() []ReportType {
	return []ReportType{
		ReportTypeHOS,
		ReportTypeSafetyInbox,
		ReportTypePersonnelConveyance,
		ReportTypeUnassignedHOS,
		ReportTypeMistDVI,
		ReportTypeDriverBehaviors,
		ReportTypeDriverSafety,
	}
}

// IsValid reports whether t is one of the defined report types.
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeHOS, ReportTypeSafetyInbox, ReportTypePersonnelConveyance,
		ReportTypeUnassignedHOS, ReportTypeMistDVI, ReportTypeDriverBehaviors,
		ReportTypeDriverSafety:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (t ReportType) String() string {
	return string(t)
}

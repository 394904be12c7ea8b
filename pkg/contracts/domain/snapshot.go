package domain

// FileResult records a successfully ingested upload: the tag the
// classifier assigned and the row count stored under that tag.
type FileResult struct {
	Filename   string     `json:"filename"`
	ReportType ReportType `json:"report_type"`
	Rows       int        `json:"rows"`
}

// FileFailure records a per-file processing failure. Failures are
// collected per batch and reported alongside the files that succeeded;
// they never abort the rest of the batch.
type FileFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchResult is the outcome of processing one uploaded batch.
type BatchResult struct {
	Ticket   string        `json:"ticket"`
	Files    []FileResult  `json:"files"`
	Failures []FileFailure `json:"failures"`
}

// DriverHours is one row of a per-driver duration table, with the
// duration carried both as decimal hours and as an H:MM:SS display
// string.
type DriverHours struct {
	Driver   string  `json:"driver"`
	Hours    float64 `json:"hours"`
	Duration string  `json:"duration"`
}

// SafetyInboxSection summarizes safety-inbox events for the report.
type SafetyInboxSection struct {
	Summary        SummaryRecord    `json:"summary"`
	DismissedCount int              `json:"dismissed_count"`
	EventBreakdown []BreakdownEntry `json:"event_breakdown"`
	Insights       string           `json:"insights"`
}

// ConveyanceSection summarizes personal-conveyance usage.
type ConveyanceSection struct {
	TotalHours    float64       `json:"total_hours"`
	TotalDuration string        `json:"total_duration"`
	TopDrivers    []DriverHours `json:"top_drivers"`
}

// VehicleHours is one row of the unassigned-driving per-vehicle table.
type VehicleHours struct {
	Vehicle  string  `json:"vehicle"`
	Hours    float64 `json:"hours"`
	Segments int     `json:"segments"`
}

// UnassignedSection summarizes unassigned driving segments.
type UnassignedSection struct {
	TotalHours    float64        `json:"total_hours"`
	TotalSegments int            `json:"total_segments"`
	ByVehicle     []VehicleHours `json:"by_vehicle"`
	Insights      string         `json:"insights"`
}

// ReportDocument is the structured input handed to external PDF/DOCX
// rendering: the HOS summary and trend plus the optional sections for
// the other stored tables. Everything here serializes to plain nested
// maps of strings and numbers.
type ReportDocument struct {
	Ticket          string              `json:"ticket"`
	TrendEnd        string              `json:"trend_end"`
	Summary         SummaryRecord       `json:"summary"`
	Trend           TrendRecord         `json:"trend"`
	SummaryInsights string              `json:"summary_insights"`
	TrendInsights   string              `json:"trend_insights"`
	SafetyInbox     *SafetyInboxSection `json:"safety_inbox,omitempty"`
	Conveyance      *ConveyanceSection  `json:"personal_conveyance,omitempty"`
	Unassigned      *UnassignedSection  `json:"unassigned_driving,omitempty"`
}

package compliance

// Rule enum
type Rule string

const (
	RuleMinimumRoomArea   Rule = "MINIMUM_ROOM_AREA"
	RuleWindowToWallRatio Rule = "WINDOW_TO_WALL_RATIO"
	RuleVentilation       Rule = "VENTILATION"
	RuleOrientation       Rule = "ORIENTATION"
	RuleFloorSpaceIndex   Rule = "FLOOR_SPACE_INDEX"
	RuleSetback           Rule = "SETBACK"
)

// Severity enum
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Violation is created only when a check fails
type Violation struct {
	Rule          Rule     `json:"rule"`
	Description   string   `json:"description"`
	RequiredValue any      `json:"required_value"`
	ActualValue   any      `json:"actual_value"`
	Severity      Severity `json:"severity"`
}

// ViolationsSummary counts violations by severity
type ViolationsSummary struct {
	TotalViolations int `json:"total_violations"`
	Critical        int `json:"critical"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// CheckResult aggregates all six checks. ComplianceStatus is the AND of the
// room-area, window-ratio, ventilation and setback checks; orientation and
// FSI are advisory and never gate it.
type CheckResult struct {
	ComplianceStatus         bool           `json:"compliance_status"`
	Violations               []Violation    `json:"violations"`
	MinRoomAreaCompliant     bool           `json:"min_room_area_compliant"`
	WindowToWallCompliant    bool           `json:"window_to_wall_compliant"`
	VentilationCompliant     bool           `json:"ventilation_compliant"`
	OrientationCompliant     bool           `json:"orientation_compliant"`
	FloorSpaceIndexCompliant bool           `json:"floor_space_index_compliant"`
	SetbackCompliant         bool           `json:"setback_compliant"`
	DetailedReport           map[string]any `json:"detailed_report"`
}

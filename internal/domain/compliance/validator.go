package compliance

import (
	"fmt"
	"math"
)

// Compliance thresholds, one illustrative rule set
const (
	MinimumRoomArea          = 10.0 // square meters
	MinimumWindowToWallRatio = 0.15
	MinimumVentilationScore  = 50.0
	OrientationTolerance     = 30 // degrees
	MaximumFSI               = 3.0
	MinimumSetback           = 3.0 // meters

	// coarse heuristic: plot area per floor is split across ~6 rooms
	assumedRoomsPerFloor = 6
)

// South-facing orientations (degrees)
var OptimalOrientations = []int{135, 180, 225}

// RoomAreaDetail raw detail for the room-area check
type RoomAreaDetail struct {
	PlotArea        float64 `json:"plot_area"`
	AvgRoomArea     float64 `json:"avg_room_area"`
	MinimumRequired float64 `json:"minimum_required"`
	Compliant       bool    `json:"compliant"`
}

type WindowRatioDetail struct {
	Ratio           float64 `json:"ratio"`
	MinimumRequired float64 `json:"minimum_required"`
	Percentage      float64 `json:"percentage"`
	Compliant       bool    `json:"compliant"`
}

type VentilationDetail struct {
	Score           float64 `json:"score"`
	MinimumRequired float64 `json:"minimum_required"`
	Compliant       bool    `json:"compliant"`
}

type OrientationDetail struct {
	Orientation         int     `json:"orientation"`
	ClosestOptimal      int     `json:"closest_optimal"`
	ToleranceDegrees    int     `json:"tolerance_degrees"`
	DistanceFromOptimal float64 `json:"distance_from_optimal"`
	Compliant           bool    `json:"compliant"`
}

type FSIDetail struct {
	FSI            float64 `json:"fsi,omitempty"`
	MaximumAllowed float64 `json:"maximum_allowed,omitempty"`
	PlotArea       float64 `json:"plot_area,omitempty"`
	TotalBuiltArea float64 `json:"total_built_area,omitempty"`
	Compliant      bool    `json:"compliant"`
	Error          string  `json:"error,omitempty"`
}

type SetbackDetail struct {
	MinimumRequired float64            `json:"minimum_required"`
	Setbacks        map[string]float64 `json:"setbacks"`
	Violations      []string           `json:"violations"`
	Compliant       bool               `json:"compliant"`
}

// CheckMinimumRoomArea estimates average room area from the plot and floor
// count and compares it against the minimum.
func CheckMinimumRoomArea(plotLength, plotWidth float64, floorLimit int) (bool, RoomAreaDetail) {
	plotArea := plotLength * plotWidth
	avgRoomArea := plotArea
	if floorLimit > 0 {
		avgRoomArea = plotArea / float64(floorLimit)
	}
	avgRoomArea /= assumedRoomsPerFloor

	compliant := avgRoomArea >= MinimumRoomArea
	return compliant, RoomAreaDetail{
		PlotArea:        plotArea,
		AvgRoomArea:     avgRoomArea,
		MinimumRequired: MinimumRoomArea,
		Compliant:       compliant,
	}
}

// CheckWindowToWallRatio enforces the 15% minimum glazing ratio
func CheckWindowToWallRatio(ratio float64) (bool, WindowRatioDetail) {
	compliant := ratio >= MinimumWindowToWallRatio
	return compliant, WindowRatioDetail{
		Ratio:           ratio,
		MinimumRequired: MinimumWindowToWallRatio,
		Percentage:      ratio * 100,
		Compliant:       compliant,
	}
}

// CheckVentilationRequirement enforces the minimum ventilation score
func CheckVentilationRequirement(score float64) (bool, VentilationDetail) {
	compliant := score >= MinimumVentilationScore
	return compliant, VentilationDetail{
		Score:           score,
		MinimumRequired: MinimumVentilationScore,
		Compliant:       compliant,
	}
}

// CheckOrientationCompliance measures the circular distance to the nearest
// optimal orientation and compares it to the tolerance band.
func CheckOrientationCompliance(orientation int) (bool, OrientationDetail) {
	minDistance := math.Inf(1)
	closest := 0
	for _, optimal := range OptimalOrientations {
		diff := math.Abs(float64(orientation - optimal))
		distance := math.Min(diff, 360-diff)
		if distance < minDistance {
			minDistance = distance
			closest = optimal
		}
	}

	compliant := minDistance <= OrientationTolerance
	return compliant, OrientationDetail{
		Orientation:         orientation,
		ClosestOptimal:      closest,
		ToleranceDegrees:    OrientationTolerance,
		DistanceFromOptimal: minDistance,
		Compliant:           compliant,
	}
}

// CheckFloorSpaceIndex computes FSI = built area / plot area. A non-positive
// plot area yields a non-compliant result with an error detail, not a Go error.
func CheckFloorSpaceIndex(plotArea, totalBuiltArea float64) (bool, FSIDetail) {
	if plotArea <= 0 {
		return false, FSIDetail{Error: "Invalid plot area"}
	}

	fsi := totalBuiltArea / plotArea
	compliant := fsi <= MaximumFSI
	return compliant, FSIDetail{
		FSI:            fsi,
		MaximumAllowed: MaximumFSI,
		PlotArea:       plotArea,
		TotalBuiltArea: totalBuiltArea,
		Compliant:      compliant,
	}
}

// CheckSetbackRules checks each compass direction independently against the
// minimum setback and names every failing direction.
func CheckSetbackRules(plotLength, plotWidth, north, south, east, west float64) (bool, SetbackDetail) {
	var violations []string
	if north < MinimumSetback {
		violations = append(violations, "North setback insufficient")
	}
	if south < MinimumSetback {
		violations = append(violations, "South setback insufficient")
	}
	if east < MinimumSetback {
		violations = append(violations, "East setback insufficient")
	}
	if west < MinimumSetback {
		violations = append(violations, "West setback insufficient")
	}

	compliant := len(violations) == 0
	return compliant, SetbackDetail{
		MinimumRequired: MinimumSetback,
		Setbacks: map[string]float64{
			"north": north,
			"south": south,
			"east":  east,
			"west":  west,
		},
		Violations: violations,
		Compliant:  compliant,
	}
}

// Input bundles parameters for ValidateDesign. FloorLimit and TotalBuiltArea
// are optional; zero means not supplied. With no TotalBuiltArea the FSI check
// is skipped and treated as compliant.
type Input struct {
	PlotLength        float64 `json:"plot_length"`
	PlotWidth         float64 `json:"plot_width"`
	FloorLimit        int     `json:"floor_limit,omitempty"`
	WindowToWallRatio float64 `json:"window_to_wall_ratio"`
	VentilationScore  float64 `json:"ventilation_score"`
	Orientation       int     `json:"orientation"`
	TotalBuiltArea    float64 `json:"total_built_area,omitempty"`
	SetbackNorth      float64 `json:"setback_north"`
	SetbackSouth      float64 `json:"setback_south"`
	SetbackEast       float64 `json:"setback_east"`
	SetbackWest       float64 `json:"setback_west"`
}

// ValidateDesign runs all six checks and aggregates violations with their
// fixed severities.
func ValidateDesign(in Input) CheckResult {
	var violations []Violation
	report := map[string]any{}

	// Check 1: minimum room area
	roomAreaOK, roomAreaDetail := CheckMinimumRoomArea(in.PlotLength, in.PlotWidth, in.FloorLimit)
	report["minimum_room_area"] = roomAreaDetail
	if !roomAreaOK {
		violations = append(violations, Violation{
			Rule:          RuleMinimumRoomArea,
			Description:   fmt.Sprintf("Average room area below minimum (%.2fm² < %gm²)", roomAreaDetail.AvgRoomArea, MinimumRoomArea),
			RequiredValue: MinimumRoomArea,
			ActualValue:   roomAreaDetail.AvgRoomArea,
			Severity:      SeverityWarning,
		})
	}

	// Check 2: window-to-wall ratio
	wtwOK, wtwDetail := CheckWindowToWallRatio(in.WindowToWallRatio)
	report["window_to_wall_ratio"] = wtwDetail
	if !wtwOK {
		violations = append(violations, Violation{
			Rule:          RuleWindowToWallRatio,
			Description:   fmt.Sprintf("Window-to-wall ratio below 15%% (%.1f%%)", wtwDetail.Percentage),
			RequiredValue: fmt.Sprintf("%g%%", MinimumWindowToWallRatio*100),
			ActualValue:   fmt.Sprintf("%.1f%%", wtwDetail.Percentage),
			Severity:      SeverityCritical,
		})
	}

	// Check 3: ventilation
	ventOK, ventDetail := CheckVentilationRequirement(in.VentilationScore)
	report["ventilation"] = ventDetail
	if !ventOK {
		violations = append(violations, Violation{
			Rule:          RuleVentilation,
			Description:   fmt.Sprintf("Ventilation score below minimum (Score: %.0f)", in.VentilationScore),
			RequiredValue: MinimumVentilationScore,
			ActualValue:   in.VentilationScore,
			Severity:      SeverityWarning,
		})
	}

	// Check 4: orientation (advisory)
	orientOK, orientDetail := CheckOrientationCompliance(in.Orientation)
	report["orientation"] = orientDetail

	// Check 5: FSI, only when a built area is supplied
	plotArea := in.PlotLength * in.PlotWidth
	fsiOK := true
	if in.TotalBuiltArea != 0 {
		var fsiDetail FSIDetail
		fsiOK, fsiDetail = CheckFloorSpaceIndex(plotArea, in.TotalBuiltArea)
		report["floor_space_index"] = fsiDetail
		if !fsiOK {
			violations = append(violations, Violation{
				Rule:          RuleFloorSpaceIndex,
				Description:   fmt.Sprintf("FSI exceeds maximum (%.2f > %g)", fsiDetail.FSI, MaximumFSI),
				RequiredValue: fmt.Sprintf("<= %g", MaximumFSI),
				ActualValue:   fmt.Sprintf("%.2f", fsiDetail.FSI),
				Severity:      SeverityCritical,
			})
		}
	}

	// Check 6: setbacks
	setbackOK, setbackDetail := CheckSetbackRules(
		in.PlotLength, in.PlotWidth,
		in.SetbackNorth, in.SetbackSouth, in.SetbackEast, in.SetbackWest,
	)
	report["setbacks"] = setbackDetail
	if !setbackOK {
		for _, msg := range setbackDetail.Violations {
			violations = append(violations, Violation{
				Rule:          RuleSetback,
				Description:   fmt.Sprintf("%s (minimum: %gm)", msg, MinimumSetback),
				RequiredValue: fmt.Sprintf(">= %gm", MinimumSetback),
				ActualValue:   "See violation message",
				Severity:      SeverityWarning,
			})
		}
	}

	// orientation and FSI are informational, they never gate the boolean
	overall := roomAreaOK && wtwOK && ventOK && setbackOK

	summary := ViolationsSummary{TotalViolations: len(violations)}
	for _, v := range violations {
		switch v.Severity {
		case SeverityCritical:
			summary.Critical++
		case SeverityWarning:
			summary.Warnings++
		case SeverityInfo:
			summary.Info++
		}
	}
	report["violations_summary"] = summary

	return CheckResult{
		ComplianceStatus:         overall,
		Violations:               violations,
		MinRoomAreaCompliant:     roomAreaOK,
		WindowToWallCompliant:    wtwOK,
		VentilationCompliant:     ventOK,
		OrientationCompliant:     orientOK,
		FloorSpaceIndexCompliant: fsiOK,
		SetbackCompliant:         setbackOK,
		DetailedReport:           report,
	}
}

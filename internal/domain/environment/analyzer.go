package environment

import (
	"fmt"
	"math"
)

// Passive design factor weights. Weights sum to 90 on purpose; the composite
// formula expects the raw weighted sum, not a normalized one.
var passiveFactors = []struct {
	Name   string
	Weight float64
}{
	{"thermal_mass", 15},
	{"natural_ventilation", 15},
	{"solar_shading", 12},
	{"green_roof", 10},
	{"rainwater_harvesting", 12},
	{"material_efficiency", 10},
	{"cross_ventilation", 16},
}

// SustainabilityDetail is the breakdown returned by CalculateSustainabilityIndex
type SustainabilityDetail struct {
	SustainabilityIndex       float64         `json:"sustainability_index"`
	EnergyEfficiencyScore     float64         `json:"energy_efficiency_score"`
	NaturalLightingPercentage float64         `json:"natural_lighting_percentage"`
	PassiveDesignScore        float64         `json:"passive_design_score"`
	PassiveDesignDetail       map[string]bool `json:"passive_design_detail"`
	ImplementedFeatures       int             `json:"implemented_features"`
	TotalFeatures             int             `json:"total_features"`
	Recommendations           []string        `json:"recommendations"`
}

// AnalysisResult is the full record produced by PerformCompleteAnalysis
type AnalysisResult struct {
	SunScore                  float64              `json:"sun_score"`
	EstimatedSunlightHours    float64              `json:"estimated_sunlight_hours"`
	AirflowScore              float64              `json:"airflow_score"`
	WindowToWallRatio         float64              `json:"window_to_wall_ratio"`
	OrientationFactor         float64              `json:"orientation_factor"`
	EnergyEfficiencyScore     float64              `json:"energy_efficiency_score"`
	NaturalLightingPercentage float64              `json:"natural_lighting_percentage"`
	SustainabilityIndex       float64              `json:"sustainability_index"`
	AnalysisDetails           SustainabilityDetail `json:"analysis_details"`
	PassiveDesignFactors      map[string]bool      `json:"passive_design_factors"`
}

// AnalysisInput bundles the parameters for a complete analysis
type AnalysisInput struct {
	Latitude                  float64         `json:"latitude"`
	Orientation               int             `json:"orientation"`
	WindowRatio               float64         `json:"window_ratio"`
	WindowToWallRatio         float64         `json:"window_to_wall_ratio"`
	ClimateZone               string          `json:"climate_zone"`
	NaturalLightingPercentage float64         `json:"natural_lighting_percentage"`
	CrossVentilationPossible  bool            `json:"cross_ventilation_possible"`
	PassiveDesignFactors      map[string]bool `json:"passive_design_factors"`
}

func clamp100(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

// CalculateSunExposure scores sun exposure and estimates sunlight hours for
// the climate zone. Closer to the equator scores higher; south-facing (180
// degrees) is optimal.
func CalculateSunExposure(latitude float64, orientation int, windowRatio float64, climateZone string) (float64, float64) {
	cfg := ClimateFor(climateZone)

	latitudeFactor := 1.0 - (math.Abs(latitude)/90.0)*0.3

	// normalize orientation to distance from south, capped at 180
	normalized := math.Min(math.Abs(float64(orientation)-180), 180)
	orientationBonus := math.Max(0, 1.0-normalized/180.0)
	orientationFactor := 0.6 + orientationBonus*0.4

	windowFactor := math.Min(windowRatio/cfg.OptimalWindowRatio, 1.0)

	sunScore := clamp100((latitudeFactor*0.4 + orientationFactor*0.4 + windowFactor*0.2) * 100)
	estimatedHours := (sunScore / 100) * cfg.MaxSunlightHours
	return sunScore, estimatedHours
}

// CalculateVentilationScore scores airflow from the window-to-wall ratio.
// Bands: below 0.15 ramps to 50, 0.15..0.25 ramps 50 to 80, above 0.25 decays
// toward 60 as the ratio approaches 0.40. Cross-ventilation adds a flat +15.
func CalculateVentilationScore(windowToWallRatio float64, crossVentilationPossible bool) float64 {
	const (
		minRatio     = 0.15
		optimalRatio = 0.25
		maxRatio     = 0.40
	)

	var score float64
	switch {
	case windowToWallRatio < minRatio:
		score = (windowToWallRatio / minRatio) * 50
	case windowToWallRatio <= optimalRatio:
		score = 50 + ((windowToWallRatio-minRatio)/(optimalRatio-minRatio))*30
	default:
		score = 80 - ((windowToWallRatio-optimalRatio)/(maxRatio-optimalRatio))*20
	}

	score = clamp100(score)

	if crossVentilationPossible {
		score = math.Min(score+15, 100)
	}
	return score
}

// CalculateEnergyEfficiencyScore blends sun, ventilation and orientation:
// 0.4*sun + 0.4*ventilation + 0.2*(orientationFactor*100), clamped to [0,100].
func CalculateEnergyEfficiencyScore(sunScore, ventilationScore, orientationFactor float64) float64 {
	return clamp100(sunScore*0.4 + ventilationScore*0.4 + orientationFactor*100*0.2)
}

// CalculateSustainabilityIndex computes the composite sustainability index
// with the passive-design breakdown and recommendations. Recommendations are
// never empty.
func CalculateSustainabilityIndex(energyScore, naturalLightingPct float64, factors map[string]bool) SustainabilityDetail {
	var passiveScore float64
	implemented := 0
	detail := make(map[string]bool, len(passiveFactors))

	for _, f := range passiveFactors {
		on := factors[f.Name]
		if on {
			passiveScore += f.Weight
			implemented++
		}
		detail[f.Name] = on
	}

	index := clamp100(energyScore*0.4 + naturalLightingPct*0.3 + passiveScore*0.3)

	return SustainabilityDetail{
		SustainabilityIndex:       index,
		EnergyEfficiencyScore:     energyScore,
		NaturalLightingPercentage: naturalLightingPct,
		PassiveDesignScore:        passiveScore,
		PassiveDesignDetail:       detail,
		ImplementedFeatures:       implemented,
		TotalFeatures:             len(passiveFactors),
		Recommendations:           recommendations(energyScore, naturalLightingPct, implemented, len(passiveFactors)),
	}
}

func recommendations(energyScore, lightingPct float64, implemented, total int) []string {
	var out []string

	if energyScore < 60 {
		out = append(out, "Improve window-to-wall ratio for better natural ventilation")
		out = append(out, "Optimize building orientation for solar gain")
	} else if energyScore < 80 {
		out = append(out, "Fine-tune solar shading strategies for year-round comfort")
	}

	if lightingPct < 70 {
		out = append(out, "Increase window size to improve natural lighting")
		out = append(out, "Consider skylights in deep spaces")
	}

	if float64(implemented) < float64(total)*0.7 {
		out = append(out, fmt.Sprintf("Implement more passive design strategies (%d remaining)", total-implemented))
	}

	if len(out) == 0 {
		out = append(out, "Design demonstrates excellent sustainability performance")
	}
	return out
}

// PerformCompleteAnalysis runs the full pipeline: sun exposure, ventilation,
// orientation, energy efficiency, sustainability. The orientation factor in
// the result uses the unfloored formula and can reach 0; the floored variant
// only feeds the sun score.
func PerformCompleteAnalysis(in AnalysisInput) AnalysisResult {
	factors := in.PassiveDesignFactors
	if factors == nil {
		factors = map[string]bool{}
	}

	sunScore, sunlightHours := CalculateSunExposure(in.Latitude, in.Orientation, in.WindowRatio, in.ClimateZone)

	ventilationScore := CalculateVentilationScore(in.WindowToWallRatio, in.CrossVentilationPossible)

	normalized := math.Min(math.Abs(float64(in.Orientation)-180), 180)
	orientationFactor := 1.0 - normalized/180.0

	energyScore := CalculateEnergyEfficiencyScore(sunScore, ventilationScore, orientationFactor)

	sustainability := CalculateSustainabilityIndex(energyScore, in.NaturalLightingPercentage, factors)

	return AnalysisResult{
		SunScore:                  sunScore,
		EstimatedSunlightHours:    sunlightHours,
		AirflowScore:              ventilationScore,
		WindowToWallRatio:         in.WindowToWallRatio,
		OrientationFactor:         orientationFactor,
		EnergyEfficiencyScore:     energyScore,
		NaturalLightingPercentage: in.NaturalLightingPercentage,
		SustainabilityIndex:       sustainability.SustainabilityIndex,
		AnalysisDetails:           sustainability,
		PassiveDesignFactors:      sustainability.PassiveDesignDetail,
	}
}

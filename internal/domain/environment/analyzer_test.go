package environment

import (
	"math"
	"testing"
)

func TestCalculateSunExposure(t *testing.T) {
	score, hours := CalculateSunExposure(19.0, 180, 0.30, "tropical")
	if score < 0 || score > 100 {
		t.Fatalf("sun score out of range: %v", score)
	}
	if hours < 0 || hours > 10 {
		t.Fatalf("sunlight hours out of tropical bound: %v", hours)
	}
	// hours must track the score against the climate max
	if want := score / 100 * 10; math.Abs(hours-want) > 1e-9 {
		t.Fatalf("hours=%v want=%v", hours, want)
	}
}

func TestCalculateSunExposure_UnknownClimateFallsBackToTemperate(t *testing.T) {
	s1, h1 := CalculateSunExposure(45, 180, 0.20, "martian")
	s2, h2 := CalculateSunExposure(45, 180, 0.20, "TEMPERATE")
	if s1 != s2 || h1 != h2 {
		t.Fatalf("fallback mismatch: (%v,%v) vs (%v,%v)", s1, h1, s2, h2)
	}
}

func TestCalculateSunExposure_OrientationFactorFloor(t *testing.T) {
	// a due-north building still gets the 0.6 orientation floor inside the
	// sun score, so the score stays well above zero
	score, _ := CalculateSunExposure(0, 0, 0.25, "temperate")
	if score < 60 {
		t.Fatalf("north-facing equatorial score too low: %v", score)
	}
}

func TestCalculateVentilationScore_Bands(t *testing.T) {
	if got := CalculateVentilationScore(0.10, false); got >= 50 {
		t.Fatalf("low ratio score=%v want <50", got)
	}
	if got := CalculateVentilationScore(0.25, false); got <= 75 {
		t.Fatalf("optimal ratio score=%v want >75", got)
	}
	// past optimal the score decays
	at30 := CalculateVentilationScore(0.30, false)
	at40 := CalculateVentilationScore(0.40, false)
	if !(at30 > at40) {
		t.Fatalf("expected decay past optimal: 0.30=%v 0.40=%v", at30, at40)
	}
}

func TestCalculateVentilationScore_CrossVentilationBonus(t *testing.T) {
	base := CalculateVentilationScore(0.20, false)
	bonus := CalculateVentilationScore(0.20, true)
	if math.Abs(bonus-base-15) > 1e-9 {
		t.Fatalf("bonus=%v base=%v want +15", bonus, base)
	}
	// bonus is capped at 100
	if got := CalculateVentilationScore(0.25, true); got > 100 {
		t.Fatalf("score above cap: %v", got)
	}
}

func TestCalculateEnergyEfficiencyScore(t *testing.T) {
	got := CalculateEnergyEfficiencyScore(75, 80, 0.8)
	want := 75*0.4 + 80*0.4 + 0.8*100*0.2
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("energy score=%v want=%v", got, want)
	}
	if got := CalculateEnergyEfficiencyScore(200, 200, 2); got != 100 {
		t.Fatalf("expected clamp to 100, got %v", got)
	}
}

func TestCalculateSustainabilityIndex(t *testing.T) {
	factors := map[string]bool{
		"thermal_mass":        true,
		"natural_ventilation": true,
		"solar_shading":       true,
		"green_roof":          false,
		"rainwater_harvesting": false,
		"material_efficiency": true,
		"cross_ventilation":   true,
	}
	d := CalculateSustainabilityIndex(75, 85, factors)

	if d.SustainabilityIndex < 0 || d.SustainabilityIndex > 100 {
		t.Fatalf("index out of range: %v", d.SustainabilityIndex)
	}
	// 15+15+12+10+16 = 68
	if d.PassiveDesignScore != 68 {
		t.Fatalf("passive score=%v want=68", d.PassiveDesignScore)
	}
	if d.ImplementedFeatures != 5 || d.TotalFeatures != 7 {
		t.Fatalf("implemented=%d total=%d", d.ImplementedFeatures, d.TotalFeatures)
	}
	if len(d.Recommendations) == 0 {
		t.Fatal("recommendations must never be empty")
	}
}

func TestCalculateSustainabilityIndex_FallbackRecommendation(t *testing.T) {
	all := map[string]bool{}
	for _, f := range passiveFactors {
		all[f.Name] = true
	}
	d := CalculateSustainabilityIndex(90, 90, all)
	if len(d.Recommendations) != 1 {
		t.Fatalf("want single positive message, got %v", d.Recommendations)
	}
}

func TestCalculateSustainabilityIndex_LowScoresFireAllRules(t *testing.T) {
	d := CalculateSustainabilityIndex(50, 60, map[string]bool{})
	// 2 energy + 2 lighting + 1 passive-features
	if len(d.Recommendations) != 5 {
		t.Fatalf("recommendations=%d want=5: %v", len(d.Recommendations), d.Recommendations)
	}
}

func TestPerformCompleteAnalysis(t *testing.T) {
	in := AnalysisInput{
		Latitude:                  19.0,
		Orientation:               180,
		WindowRatio:               0.30,
		WindowToWallRatio:         0.22,
		ClimateZone:               "tropical",
		NaturalLightingPercentage: 80,
		CrossVentilationPossible:  true,
		PassiveDesignFactors:      map[string]bool{"thermal_mass": true},
	}
	res := PerformCompleteAnalysis(in)

	for name, v := range map[string]float64{
		"sun_score":               res.SunScore,
		"airflow_score":           res.AirflowScore,
		"energy_efficiency_score": res.EnergyEfficiencyScore,
		"sustainability_index":    res.SustainabilityIndex,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s out of range: %v", name, v)
		}
	}
	if res.WindowToWallRatio != in.WindowToWallRatio {
		t.Fatalf("window_to_wall_ratio not echoed: %v", res.WindowToWallRatio)
	}
	// south facing: the result factor uses the unfloored formula and hits 1.0
	if res.OrientationFactor != 1.0 {
		t.Fatalf("orientation factor=%v want=1.0", res.OrientationFactor)
	}
}

func TestPerformCompleteAnalysis_UnflooredOrientationFactor(t *testing.T) {
	in := AnalysisInput{Orientation: 0, ClimateZone: "temperate", WindowRatio: 0.2, WindowToWallRatio: 0.2}
	res := PerformCompleteAnalysis(in)
	// due north: distance from 180 is 180, so the final factor is 0,
	// even though the sun-exposure path floors its own variant at 0.6
	if res.OrientationFactor != 0 {
		t.Fatalf("orientation factor=%v want=0", res.OrientationFactor)
	}
}

func TestPerformCompleteAnalysis_Idempotent(t *testing.T) {
	in := AnalysisInput{
		Latitude: 52.5, Orientation: 210, WindowRatio: 0.18, WindowToWallRatio: 0.18,
		ClimateZone: "cold", NaturalLightingPercentage: 65, CrossVentilationPossible: true,
		PassiveDesignFactors: map[string]bool{"green_roof": true},
	}
	a := PerformCompleteAnalysis(in)
	b := PerformCompleteAnalysis(in)
	if a.SunScore != b.SunScore || a.SustainabilityIndex != b.SustainabilityIndex ||
		a.EnergyEfficiencyScore != b.EnergyEfficiencyScore || a.AirflowScore != b.AirflowScore {
		t.Fatalf("analysis not deterministic: %+v vs %+v", a, b)
	}
}

func TestScoresClampedAcrossInputs(t *testing.T) {
	latitudes := []float64{-90, -45, 0, 45, 90}
	orientations := []int{0, 90, 180, 270, 360}
	ratios := []float64{0, 0.1, 0.25, 0.5, 1}

	for _, lat := range latitudes {
		for _, o := range orientations {
			for _, r := range ratios {
				res := PerformCompleteAnalysis(AnalysisInput{
					Latitude: lat, Orientation: o, WindowRatio: r, WindowToWallRatio: r,
					ClimateZone: "desert", NaturalLightingPercentage: 80,
				})
				for _, v := range []float64{res.SunScore, res.AirflowScore, res.EnergyEfficiencyScore, res.SustainabilityIndex} {
					if v < 0 || v > 100 {
						t.Fatalf("lat=%v o=%d r=%v produced out-of-range score %v", lat, o, r, v)
					}
				}
				if res.EstimatedSunlightHours < 0 {
					t.Fatalf("negative sunlight hours: %v", res.EstimatedSunlightHours)
				}
			}
		}
	}
}

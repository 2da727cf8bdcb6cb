package environment

import "strings"

// ClimateConfig holds per-zone sunlight and glazing targets
type ClimateConfig struct {
	MaxSunlightHours      float64 `json:"max_sunlight_hours"`
	OptimalWindowRatio    float64 `json:"optimal_window_ratio"`
	OrientationPreference string  `json:"orientation_preference"`
}

// Climate zone configurations
var climateConfigs = map[string]ClimateConfig{
	"tropical":  {MaxSunlightHours: 10, OptimalWindowRatio: 0.20, OrientationPreference: "south"},
	"temperate": {MaxSunlightHours: 8, OptimalWindowRatio: 0.25, OrientationPreference: "south"},
	"desert":    {MaxSunlightHours: 12, OptimalWindowRatio: 0.15, OrientationPreference: "north"},
	"cold":      {MaxSunlightHours: 6, OptimalWindowRatio: 0.30, OrientationPreference: "south"},
}

// ClimateFor looks up a zone config, case-insensitive. Unknown zones fall back to temperate.
func ClimateFor(zone string) ClimateConfig {
	if cfg, ok := climateConfigs[strings.ToLower(zone)]; ok {
		return cfg
	}
	return climateConfigs["temperate"]
}

// ClimateZones lists the known zone keys
func ClimateZones() []string {
	return []string{"tropical", "temperate", "desert", "cold"}
}

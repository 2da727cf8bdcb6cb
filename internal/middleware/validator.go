package middleware

import (
	"fmt"
	"strings"

	"github.com/archistudio/designcheck/internal/domain/environment"
)

// ValidateTenantID restricts tenant IDs to a safe slug alphabet.
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant id is required")
	}
	if len(tenant) > 64 {
		return fmt.Errorf("tenant id too long")
	}
	for _, r := range tenant {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return fmt.Errorf("tenant id contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateClimateZone checks the zone against the known configurations.
func ValidateClimateZone(zone string) error {
	if zone == "" {
		return fmt.Errorf("climate zone is required")
	}
	for _, z := range environment.ClimateZones() {
		if strings.EqualFold(z, zone) {
			return nil
		}
	}
	return fmt.Errorf("unknown climate zone %q", zone)
}

// ValidateBuildingType checks the type against supported categories.
func ValidateBuildingType(t string) error {
	switch strings.ToLower(t) {
	case "residential", "commercial", "institutional", "hospitality":
		return nil
	case "":
		return fmt.Errorf("building type is required")
	default:
		return fmt.Errorf("unknown building type %q", t)
	}
}

// ValidateOrientation checks a compass bearing in degrees.
func ValidateOrientation(deg float64) error {
	if deg < 0 || deg > 360 {
		return fmt.Errorf("orientation must be between 0 and 360 degrees, got %g", deg)
	}
	return nil
}

// ValidateRatio checks a fractional value such as window-to-wall ratio.
func ValidateRatio(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", name, v)
	}
	return nil
}

// ValidateLatitude checks a latitude in degrees.
func ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	return nil
}

// ValidatePlotDimensions checks plot length and width are positive.
func ValidatePlotDimensions(length, width float64) error {
	if length <= 0 {
		return fmt.Errorf("plot length must be positive, got %g", length)
	}
	if width <= 0 {
		return fmt.Errorf("plot width must be positive, got %g", width)
	}
	return nil
}

// ValidatePrompt bounds the free-text generation prompt.
func ValidatePrompt(prompt string) error {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return fmt.Errorf("prompt is required")
	}
	if len(p) > 2000 {
		return fmt.Errorf("prompt too long (%d chars, max 2000)", len(p))
	}
	return nil
}

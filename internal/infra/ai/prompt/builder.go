package prompt

import (
	"fmt"
	"strings"
)

// Climate-specific design vocabulary folded into every render prompt
var climateKeywords = map[string]string{
	"tropical":  "open ventilation, breezeways, large overhangs, shade structures",
	"temperate": "balanced windows, seasonal shading, efficient glazing",
	"desert":    "thick walls, minimal openings, thermal mass, courtyards",
	"cold":      "double glazing, thermal insulation, south-facing windows",
}

// Building type vocabulary
var buildingKeywords = map[string]string{
	"residential":   "living spaces, bedrooms, kitchens, natural light",
	"commercial":    "open floor plans, meeting spaces, professional aesthetics",
	"institutional": "multipurpose spaces, accessibility, community design",
	"hospitality":   "elegant spaces, guest amenities, functional design",
}

// OrientationDescription maps degrees to the facade description used in prompts
func OrientationDescription(orientation int) string {
	switch {
	case orientation >= 0 && orientation <= 45:
		return "north-facing facade"
	case orientation <= 135:
		return "east-facing facade, morning light"
	case orientation <= 225:
		return "south-facing facade, optimal sun"
	case orientation <= 315:
		return "west-facing facade, afternoon exposure"
	case orientation <= 360:
		return "north-facing facade"
	default:
		return "south-facing"
	}
}

// BuildArchitecturePrompt enriches a user prompt with climate, building type
// and orientation context. Unknown keys pass through verbatim.
func BuildArchitecturePrompt(basePrompt, climateZone, buildingType string, orientation int) string {
	climate := strings.ToLower(climateZone)
	building := strings.ToLower(buildingType)

	climateDesc, ok := climateKeywords[climate]
	if !ok {
		climateDesc = climate
	}
	buildingDesc, ok := buildingKeywords[building]
	if !ok {
		buildingDesc = building
	}

	return fmt.Sprintf(
		"Architectural conceptual design for a %s building in %s climate. %s. "+
			"Design features: %s. Building type: %s. Facade orientation: %s. "+
			"Style: modern architecture, sustainable design, professional architectural visualization. "+
			"Quality: high detail, architectural rendering quality, daylight visualization.",
		building, climate, basePrompt, climateDesc, buildingDesc, OrientationDescription(orientation),
	)
}

// NegativePrompt is the fixed rejection list applied to every render
const NegativePrompt = "blurry, low quality, distorted, ugly"

// ReasoningSystemPrompt directs the model to explain the design decisions in plain prose.
func ReasoningSystemPrompt() string {
	return `You are a senior architect reviewing a generated design concept. Explain in two short paragraphs, plain text only, why the described design suits its climate zone, building type and facade orientation. Mention passive strategies that apply. No markdown, no lists.`
}

// ReasoningUserPrompt builds the user message for a reasoning request
func ReasoningUserPrompt(basePrompt, climateZone, buildingType string, orientation int) string {
	return fmt.Sprintf("Design brief: %s. Climate zone: %s. Building type: %s. Orientation: %d degrees (%s).",
		basePrompt, climateZone, buildingType, orientation, OrientationDescription(orientation))
}

package ai

import "context"

// GenerateRequest carries the base prompt, the project context used for
// prompt enrichment, and the tuning knobs for one render
type GenerateRequest struct {
	Prompt         string
	ClimateZone    string
	BuildingType   string
	Orientation    int
	Seed           int64 // 0 lets the backend pick one
	GuidanceScale  float64
	InferenceSteps int
}

// GenerateResult holds the rendered image, a reduced thumbnail, and the
// prompt/seed that actually produced them
type GenerateResult struct {
	ImagePNG       []byte
	ThumbnailPNG   []byte
	EnhancedPrompt string
	Seed           int64
}

// Client port (interface for the generative backend)
type Client interface {
	GenerateImage(ctx context.Context, req GenerateRequest) (GenerateResult, error)
	Reason(ctx context.Context, prompt, climateZone, buildingType string, orientation int) (string, error)
}

package designs

import "time"

// ID type for Design
type DesignID string

// DesignType enum
type DesignType string

const (
	TypeTextToDesign   DesignType = "text-to-design"
	TypeSketchToDesign DesignType = "sketch-to-design"
)

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// GenerationMetadata value object, recorded alongside every generated image
type GenerationMetadata struct {
	OriginalPrompt string    `json:"original_prompt"`
	EnhancedPrompt string    `json:"enhanced_prompt"`
	ClimateZone    string    `json:"climate_zone"`
	BuildingType   string    `json:"building_type"`
	Orientation    int       `json:"orientation"`
	Seed           int64     `json:"seed"`
	GuidanceScale  float64   `json:"guidance_scale"`
	InferenceSteps int       `json:"num_inference_steps"`
	GeneratedAt    time.Time `json:"generation_timestamp"`
}

// Aggregate Root: Design
type Design struct {
	ID             DesignID            `json:"id"`
	TenantID       string              `json:"tenant_id"`
	ProjectID      string              `json:"project_id"`
	Prompt         string              `json:"prompt"`
	DesignType     DesignType          `json:"design_type"`
	Status         Status              `json:"status"`
	Seed           int64               `json:"seed,omitempty"`
	GuidanceScale  float64             `json:"guidance_scale,omitempty"`
	InferenceSteps int                 `json:"num_inference_steps,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	ThumbnailURL   string              `json:"thumbnail_url,omitempty"`
	AIReasoning    string              `json:"ai_reasoning,omitempty"`
	Metadata       *GenerationMetadata `json:"generation_metadata,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

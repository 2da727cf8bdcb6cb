package projects

import "time"

// ID type for Project
type ProjectID string

// BuildingType enum
type BuildingType string

const (
	BuildingResidential   BuildingType = "residential"
	BuildingCommercial    BuildingType = "commercial"
	BuildingInstitutional BuildingType = "institutional"
	BuildingHospitality   BuildingType = "hospitality"
)

// Plot holds the plot geometry and setbacks used by the compliance checks
type Plot struct {
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	FloorLimit   int     `json:"floor_limit,omitempty"`
	SetbackNorth float64 `json:"setback_north"`
	SetbackSouth float64 `json:"setback_south"`
	SetbackEast  float64 `json:"setback_east"`
	SetbackWest  float64 `json:"setback_west"`
}

// Aggregate Root: Project
type Project struct {
	ID           ProjectID    `json:"id"`
	TenantID     string       `json:"tenant_id"`
	Name         string       `json:"name"`
	ClimateZone  string       `json:"climate_zone"`
	BuildingType BuildingType `json:"building_type"`
	Latitude     float64      `json:"latitude"`
	Orientation  int          `json:"orientation"`
	Plot         Plot         `json:"plot"`
	CreatedAt    time.Time    `json:"created_at"`
}

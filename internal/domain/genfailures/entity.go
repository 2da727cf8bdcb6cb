package genfailures

import "time"

// Failure represents a persisted generation failure entry
type Failure struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	DesignID  string    `json:"design_id"`
	ProjectID string    `json:"project_id,omitempty"`
	Phase     string    `json:"phase,omitempty"` // generate | upload | persist
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

package designs

import (
	"context"

	"github.com/archistudio/designcheck/internal/domain/compliance"
	"github.com/archistudio/designcheck/internal/domain/environment"
)

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, d *Design) error
	Get(ctx context.Context, tenant string, id DesignID) (*Design, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Design, error)
	UpdateStatus(ctx context.Context, tenant string, id DesignID, status Status) error
	CountByType(ctx context.Context, tenant string) (map[string]int, error)
	CountByClimate(ctx context.Context, tenant string) (map[string]int, error)
}

// MetricsRepository port: environmental results keyed by design,
// overwrite-if-exists
type MetricsRepository interface {
	Upsert(ctx context.Context, tenant, projectID, designID string, res environment.AnalysisResult) error
	Get(ctx context.Context, tenant, designID string) (*environment.AnalysisResult, error)
	Averages(ctx context.Context, tenant string) (sustainability, energy float64, err error)
}

// ComplianceRepository port: compliance results keyed by design,
// overwrite-if-exists
type ComplianceRepository interface {
	Upsert(ctx context.Context, tenant, projectID, designID string, res compliance.CheckResult) error
	Get(ctx context.Context, tenant, designID string) (*compliance.CheckResult, error)
}

// ImageStore port (interface for rendered artifact storage)
type ImageStore interface {
	UploadImage(ctx context.Context, key string, png []byte) (string, error)
}

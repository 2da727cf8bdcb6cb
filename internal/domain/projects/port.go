package projects

import "context"

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, p *Project) error
	Get(ctx context.Context, tenant string, id ProjectID) (*Project, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Project, error)
	Count(ctx context.Context, tenant string) (int, error)
}

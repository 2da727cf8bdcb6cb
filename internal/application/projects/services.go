package projects

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/archistudio/designcheck/internal/application"
	domain "github.com/archistudio/designcheck/internal/domain/projects"
)

// Service implements use-cases for Project management
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Command to create a project
type CreateCommand struct {
	TenantID     string
	Name         string
	ClimateZone  string
	BuildingType string
	Latitude     float64
	Orientation  int
	Plot         domain.Plot
}

// Create stores a new project with a generated id
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Project, error) {
	p := &domain.Project{
		ID:           domain.ProjectID(uuid.New().String()),
		TenantID:     cmd.TenantID,
		Name:         cmd.Name,
		ClimateZone:  strings.ToLower(cmd.ClimateZone),
		BuildingType: domain.BuildingType(strings.ToLower(cmd.BuildingType)),
		Latitude:     cmd.Latitude,
		Orientation:  cmd.Orientation,
		Plot:         cmd.Plot,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get fetches one project by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.ProjectID) (*domain.Project, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// Latest fetches the last N projects
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Project, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

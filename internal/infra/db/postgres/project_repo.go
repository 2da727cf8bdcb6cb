package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/archistudio/designcheck/internal/domain/projects"
)

type ProjectRepository struct{ db *sql.DB }

func NewProjectRepository(db *sql.DB) *ProjectRepository { return &ProjectRepository{db: db} }

// Save insert/update Project record
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects
(id, tenant_id, name, climate_zone, building_type, latitude, orientation,
 plot_length, plot_width, floor_limit,
 setback_north, setback_south, setback_east, setback_west, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
 name = EXCLUDED.name,
 climate_zone = EXCLUDED.climate_zone,
 building_type = EXCLUDED.building_type,
 latitude = EXCLUDED.latitude,
 orientation = EXCLUDED.orientation,
 plot_length = EXCLUDED.plot_length,
 plot_width = EXCLUDED.plot_width,
 floor_limit = EXCLUDED.floor_limit,
 setback_north = EXCLUDED.setback_north,
 setback_south = EXCLUDED.setback_south,
 setback_east = EXCLUDED.setback_east,
 setback_west = EXCLUDED.setback_west;`

	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		p.ID, stringOrDash(p.TenantID), p.Name, p.ClimateZone, p.BuildingType,
		p.Latitude, p.Orientation,
		p.Plot.Length, p.Plot.Width, p.Plot.FloorLimit,
		p.Plot.SetbackNorth, p.Plot.SetbackSouth, p.Plot.SetbackEast, p.Plot.SetbackWest,
		created,
	)
	return err
}

// Get by ID + Tenant
func (r *ProjectRepository) Get(ctx context.Context, tenant string, id domain.ProjectID) (*domain.Project, error) {
	const q = `
SELECT id, tenant_id, name, climate_zone, building_type, latitude, orientation,
       plot_length, plot_width, floor_limit,
       setback_north, setback_south, setback_east, setback_west, created_at
FROM projects
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`

	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, tenant, id).Scan(
		&p.ID, &p.TenantID, &p.Name, &p.ClimateZone, &p.BuildingType, &p.Latitude, &p.Orientation,
		&p.Plot.Length, &p.Plot.Width, &p.Plot.FloorLimit,
		&p.Plot.SetbackNorth, &p.Plot.SetbackSouth, &p.Plot.SetbackEast, &p.Plot.SetbackWest,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Latest projects per tenant
func (r *ProjectRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Project, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, name, climate_zone, building_type, latitude, orientation,
       plot_length, plot_width, floor_limit,
       setback_north, setback_south, setback_east, setback_west, created_at
FROM projects
WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.Name, &p.ClimateZone, &p.BuildingType, &p.Latitude, &p.Orientation,
			&p.Plot.Length, &p.Plot.Width, &p.Plot.FloorLimit,
			&p.Plot.SetbackNorth, &p.Plot.SetbackSouth, &p.Plot.SetbackEast, &p.Plot.SetbackWest,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Count projects per tenant
func (r *ProjectRepository) Count(ctx context.Context, tenant string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id=$1;`, tenant).Scan(&n)
	return n, err
}

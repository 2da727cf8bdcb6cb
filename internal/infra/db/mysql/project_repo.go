package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/archistudio/designcheck/internal/domain/projects"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Save insert/update Project record
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects
(id, tenant_id, name, climate_zone, building_type, latitude, orientation,
 plot_length, plot_width, floor_limit,
 setback_north, setback_south, setback_east, setback_west, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 name=VALUES(name), climate_zone=VALUES(climate_zone), building_type=VALUES(building_type),
 latitude=VALUES(latitude), orientation=VALUES(orientation),
 plot_length=VALUES(plot_length), plot_width=VALUES(plot_width), floor_limit=VALUES(floor_limit),
 setback_north=VALUES(setback_north), setback_south=VALUES(setback_south),
 setback_east=VALUES(setback_east), setback_west=VALUES(setback_west);
`
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
WHERE tenant_id=? AND id=? LIMIT 1;
`
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
WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;
`
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
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE tenant_id=?;`, tenant).Scan(&n)
	return n, err
}

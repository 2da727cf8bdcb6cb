package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/archistudio/designcheck/internal/domain/designs"
)

type DesignRepository struct{ db *sql.DB }

func NewDesignRepository(db *sql.DB) *DesignRepository { return &DesignRepository{db: db} }

// Save insert/update Design record
func (r *DesignRepository) Save(ctx context.Context, d *domain.Design) error {
	const q = `
INSERT INTO designs
(id, tenant_id, project_id, prompt, design_type, status,
 seed, guidance_scale, inference_steps,
 image_url, thumbnail_url, ai_reasoning, generation_metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 seed = EXCLUDED.seed,
 image_url = EXCLUDED.image_url,
 thumbnail_url = EXCLUDED.thumbnail_url,
 ai_reasoning = EXCLUDED.ai_reasoning,
 generation_metadata = EXCLUDED.generation_metadata;`

	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	metadata := "{}"
	if d.Metadata != nil {
		metadata = jsonString(d.Metadata)
	}

	_, err := r.db.ExecContext(ctx, q,
		d.ID, stringOrDash(d.TenantID), d.ProjectID, d.Prompt,
		stringOrDash(string(d.DesignType)), stringOrDash(string(d.Status)),
		d.Seed, d.GuidanceScale, d.InferenceSteps,
		d.ImageURL, d.ThumbnailURL, d.AIReasoning, metadata, created,
	)
	return err
}

// Get by ID + Tenant
func (r *DesignRepository) Get(ctx context.Context, tenant string, id domain.DesignID) (*domain.Design, error) {
	const q = `
SELECT id, tenant_id, project_id, prompt, design_type, status,
       seed, guidance_scale, inference_steps,
       image_url, thumbnail_url, ai_reasoning, generation_metadata, created_at
FROM designs
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`

	d, err := scanDesign(r.db.QueryRowContext(ctx, q, tenant, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

// Latest designs per tenant
func (r *DesignRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Design, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, project_id, prompt, design_type, status,
       seed, guidance_scale, inference_steps,
       image_url, thumbnail_url, ai_reasoning, generation_metadata, created_at
FROM designs
WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Design
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus only touches the status column
func (r *DesignRepository) UpdateStatus(ctx context.Context, tenant string, id domain.DesignID, status domain.Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE designs SET status=$1 WHERE tenant_id=$2 AND id=$3;`,
		string(status), tenant, id,
	)
	return err
}

// CountByType groups designs by design_type
func (r *DesignRepository) CountByType(ctx context.Context, tenant string) (map[string]int, error) {
	return r.countBy(ctx, `SELECT design_type, COUNT(*) FROM designs WHERE tenant_id=$1 GROUP BY design_type;`, tenant)
}

// CountByClimate groups designs by their project's climate zone
func (r *DesignRepository) CountByClimate(ctx context.Context, tenant string) (map[string]int, error) {
	const q = `
SELECT COALESCE(p.climate_zone, 'unknown'), COUNT(*)
FROM designs d LEFT JOIN projects p ON p.id = d.project_id AND p.tenant_id = d.tenant_id
WHERE d.tenant_id=$1 GROUP BY p.climate_zone;`
	return r.countBy(ctx, q, tenant)
}

func (r *DesignRepository) countBy(ctx context.Context, q, tenant string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDesign(row rowScanner) (*domain.Design, error) {
	var d domain.Design
	var metadata string
	if err := row.Scan(
		&d.ID, &d.TenantID, &d.ProjectID, &d.Prompt, &d.DesignType, &d.Status,
		&d.Seed, &d.GuidanceScale, &d.InferenceSteps,
		&d.ImageURL, &d.ThumbnailURL, &d.AIReasoning, &metadata, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if metadata != "" && metadata != "{}" {
		var m domain.GenerationMetadata
		if err := json.Unmarshal([]byte(metadata), &m); err == nil {
			d.Metadata = &m
		}
	}
	return &d, nil
}

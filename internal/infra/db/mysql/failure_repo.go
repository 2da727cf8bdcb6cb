package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/archistudio/designcheck/internal/domain/genfailures"
)

// FailureRepository persists generation failures for later inspection
type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository {
	return &FailureRepository{db: db}
}

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO generation_failures
(tenant_id, design_id, project_id, phase, message, created_at)
VALUES (?,?,?,?,?,?);
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(f.TenantID), f.DesignID, f.ProjectID, f.Phase, f.Message, created,
	)
	return err
}

func (r *FailureRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, design_id, project_id, phase, message, created_at
FROM generation_failures
WHERE tenant_id=? ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.TenantID, &f.DesignID, &f.ProjectID, &f.Phase, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

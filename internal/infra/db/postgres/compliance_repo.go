package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/archistudio/designcheck/internal/domain/compliance"
)

// ComplianceRepository stores validation results, one row per design
type ComplianceRepository struct{ db *sql.DB }

func NewComplianceRepository(db *sql.DB) *ComplianceRepository { return &ComplianceRepository{db: db} }

// Upsert overwrite-if-exists, keyed by (tenant_id, design_id)
func (r *ComplianceRepository) Upsert(ctx context.Context, tenant, projectID, designID string, res compliance.CheckResult) error {
	const q = `
INSERT INTO compliance_results
(tenant_id, project_id, design_id, compliance_status, violations,
 min_room_area_compliant, window_to_wall_compliant, ventilation_compliant,
 orientation_compliant, floor_space_index_compliant, setback_compliant,
 compliance_details)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (tenant_id, design_id) DO UPDATE SET
 compliance_status = EXCLUDED.compliance_status,
 violations = EXCLUDED.violations,
 min_room_area_compliant = EXCLUDED.min_room_area_compliant,
 window_to_wall_compliant = EXCLUDED.window_to_wall_compliant,
 ventilation_compliant = EXCLUDED.ventilation_compliant,
 orientation_compliant = EXCLUDED.orientation_compliant,
 floor_space_index_compliant = EXCLUDED.floor_space_index_compliant,
 setback_compliant = EXCLUDED.setback_compliant,
 compliance_details = EXCLUDED.compliance_details;`

	violations := res.Violations
	if violations == nil {
		violations = []compliance.Violation{}
	}

	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(tenant), projectID, designID, res.ComplianceStatus, jsonString(violations),
		res.MinRoomAreaCompliant, res.WindowToWallCompliant, res.VentilationCompliant,
		res.OrientationCompliant, res.FloorSpaceIndexCompliant, res.SetbackCompliant,
		jsonString(res.DetailedReport),
	)
	return err
}

// Get the stored compliance result for a design
func (r *ComplianceRepository) Get(ctx context.Context, tenant, designID string) (*compliance.CheckResult, error) {
	const q = `
SELECT compliance_status, violations,
       min_room_area_compliant, window_to_wall_compliant, ventilation_compliant,
       orientation_compliant, floor_space_index_compliant, setback_compliant,
       compliance_details
FROM compliance_results
WHERE tenant_id=$1 AND design_id=$2 LIMIT 1;`

	var res compliance.CheckResult
	var violations, details string
	err := r.db.QueryRowContext(ctx, q, tenant, designID).Scan(
		&res.ComplianceStatus, &violations,
		&res.MinRoomAreaCompliant, &res.WindowToWallCompliant, &res.VentilationCompliant,
		&res.OrientationCompliant, &res.FloorSpaceIndexCompliant, &res.SetbackCompliant,
		&details,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(violations), &res.Violations)
	_ = json.Unmarshal([]byte(details), &res.DetailedReport)
	return &res, nil
}

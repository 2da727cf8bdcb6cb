package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/archistudio/designcheck/internal/domain/environment"
)

// MetricsRepository stores environmental analysis results, one row per design
type MetricsRepository struct {
	db *sql.DB
}

func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// Upsert overwrite-if-exists, keyed by (tenant_id, design_id)
func (r *MetricsRepository) Upsert(ctx context.Context, tenant, projectID, designID string, res environment.AnalysisResult) error {
	const q = `
INSERT INTO environmental_metrics
(tenant_id, project_id, design_id,
 sun_score, estimated_sunlight_hours, airflow_score, window_to_wall_ratio,
 orientation_factor, energy_efficiency_score, natural_lighting_percentage,
 sustainability_index, analysis_details, passive_design_factors)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 sun_score=VALUES(sun_score), estimated_sunlight_hours=VALUES(estimated_sunlight_hours),
 airflow_score=VALUES(airflow_score), window_to_wall_ratio=VALUES(window_to_wall_ratio),
 orientation_factor=VALUES(orientation_factor),
 energy_efficiency_score=VALUES(energy_efficiency_score),
 natural_lighting_percentage=VALUES(natural_lighting_percentage),
 sustainability_index=VALUES(sustainability_index),
 analysis_details=VALUES(analysis_details),
 passive_design_factors=VALUES(passive_design_factors);
`
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(tenant), projectID, designID,
		res.SunScore, res.EstimatedSunlightHours, res.AirflowScore, res.WindowToWallRatio,
		res.OrientationFactor, res.EnergyEfficiencyScore, res.NaturalLightingPercentage,
		res.SustainabilityIndex, jsonString(res.AnalysisDetails), jsonString(res.PassiveDesignFactors),
	)
	return err
}

// Get the stored analysis for a design
func (r *MetricsRepository) Get(ctx context.Context, tenant, designID string) (*environment.AnalysisResult, error) {
	const q = `
SELECT sun_score, estimated_sunlight_hours, airflow_score, window_to_wall_ratio,
       orientation_factor, energy_efficiency_score, natural_lighting_percentage,
       sustainability_index, analysis_details, passive_design_factors
FROM environmental_metrics
WHERE tenant_id=? AND design_id=? LIMIT 1;
`
	var res environment.AnalysisResult
	var details, factors string
	err := r.db.QueryRowContext(ctx, q, tenant, designID).Scan(
		&res.SunScore, &res.EstimatedSunlightHours, &res.AirflowScore, &res.WindowToWallRatio,
		&res.OrientationFactor, &res.EnergyEfficiencyScore, &res.NaturalLightingPercentage,
		&res.SustainabilityIndex, &details, &factors,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(details), &res.AnalysisDetails)
	_ = json.Unmarshal([]byte(factors), &res.PassiveDesignFactors)
	return &res, nil
}

// Averages of sustainability and energy scores per tenant
func (r *MetricsRepository) Averages(ctx context.Context, tenant string) (float64, float64, error) {
	const q = `
SELECT COALESCE(AVG(sustainability_index),0), COALESCE(AVG(energy_efficiency_score),0)
FROM environmental_metrics
WHERE tenant_id=?;
`
	var sustainability, energy float64
	if err := r.db.QueryRowContext(ctx, q, tenant).Scan(&sustainability, &energy); err != nil {
		return 0, 0, err
	}
	return sustainability, energy, nil
}

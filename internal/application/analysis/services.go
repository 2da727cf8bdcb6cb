package analysis

import (
	"context"
	"fmt"

	"github.com/archistudio/designcheck/internal/domain/compliance"
	domain "github.com/archistudio/designcheck/internal/domain/designs"
	"github.com/archistudio/designcheck/internal/domain/environment"
	"github.com/archistudio/designcheck/internal/domain/projects"
)

// fallbacks when a compliance check runs before any environmental analysis
const (
	fallbackWindowToWallRatio = 0.20
	fallbackVentilationScore  = 70.0
)

// Service implements the scoring use-cases: it feeds stored project and
// design records into the pure engines and persists the results
type Service struct {
	Projects   projects.Repository
	Designs    domain.Repository
	Metrics    domain.MetricsRepository
	Compliance domain.ComplianceRepository
}

// Command for an environmental analysis run
type AnalyzeCommand struct {
	TenantID                  string
	ProjectID                 string
	DesignID                  string
	WindowRatio               float64
	WindowToWallRatio         float64
	NaturalLightingPercentage float64
	CrossVentilationPossible  *bool
	PassiveDesignFactors      map[string]bool
}

// defaultPassiveFactors is the assumed strategy set when the caller sends none
func defaultPassiveFactors() map[string]bool {
	return map[string]bool{
		"thermal_mass":         true,
		"natural_ventilation":  true,
		"solar_shading":        true,
		"green_roof":           false,
		"rainwater_harvesting": false,
		"material_efficiency":  true,
		"cross_ventilation":    true,
	}
}

// AnalyzeEnvironment runs the environmental engine against a stored design
// and upserts the metrics row (overwrite-if-exists, keyed by design)
func (s *Service) AnalyzeEnvironment(ctx context.Context, cmd AnalyzeCommand) (*environment.AnalysisResult, error) {
	project, design, err := s.resolve(ctx, cmd.TenantID, cmd.ProjectID, cmd.DesignID)
	if err != nil {
		return nil, err
	}

	lighting := cmd.NaturalLightingPercentage
	if lighting == 0 {
		lighting = 80.0
	}
	crossVent := true
	if cmd.CrossVentilationPossible != nil {
		crossVent = *cmd.CrossVentilationPossible
	}
	factors := cmd.PassiveDesignFactors
	if len(factors) == 0 {
		factors = defaultPassiveFactors()
	}

	result := environment.PerformCompleteAnalysis(environment.AnalysisInput{
		Latitude:                  project.Latitude,
		Orientation:               project.Orientation,
		WindowRatio:               cmd.WindowRatio,
		WindowToWallRatio:         cmd.WindowToWallRatio,
		ClimateZone:               project.ClimateZone,
		NaturalLightingPercentage: lighting,
		CrossVentilationPossible:  crossVent,
		PassiveDesignFactors:      factors,
	})

	if err := s.Metrics.Upsert(ctx, cmd.TenantID, cmd.ProjectID, string(design.ID), result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Command for a compliance check run
type CheckCommand struct {
	TenantID       string
	ProjectID      string
	DesignID       string
	TotalBuiltArea float64
}

// CheckCompliance runs the six rule checks against the stored plot
// configuration and upserts the result. Window ratio and ventilation come
// from the design's environmental metrics when an analysis has been run,
// otherwise conservative defaults apply.
func (s *Service) CheckCompliance(ctx context.Context, cmd CheckCommand) (*compliance.CheckResult, error) {
	project, design, err := s.resolve(ctx, cmd.TenantID, cmd.ProjectID, cmd.DesignID)
	if err != nil {
		return nil, err
	}

	wtw := fallbackWindowToWallRatio
	vent := fallbackVentilationScore
	if metrics, err := s.Metrics.Get(ctx, cmd.TenantID, string(design.ID)); err == nil && metrics != nil {
		wtw = metrics.WindowToWallRatio
		vent = metrics.AirflowScore
	}

	result := compliance.ValidateDesign(compliance.Input{
		PlotLength:        project.Plot.Length,
		PlotWidth:         project.Plot.Width,
		FloorLimit:        project.Plot.FloorLimit,
		WindowToWallRatio: wtw,
		VentilationScore:  vent,
		Orientation:       project.Orientation,
		TotalBuiltArea:    cmd.TotalBuiltArea,
		SetbackNorth:      project.Plot.SetbackNorth,
		SetbackSouth:      project.Plot.SetbackSouth,
		SetbackEast:       project.Plot.SetbackEast,
		SetbackWest:       project.Plot.SetbackWest,
	})

	if err := s.Compliance.Upsert(ctx, cmd.TenantID, cmd.ProjectID, string(design.ID), result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SustainabilityReport is the read model served from stored metrics
type SustainabilityReport struct {
	SustainabilityIndex       float64         `json:"sustainability_index"`
	EnergyScore               float64         `json:"energy_score"`
	NaturalLightingPercentage float64         `json:"natural_lighting_percentage"`
	PassiveDesignFactors      map[string]bool `json:"passive_design_factors"`
	Recommendations           []string        `json:"recommendations"`
}

// Sustainability reads the stored sustainability numbers for a design
func (s *Service) Sustainability(ctx context.Context, tenant, designID string) (*SustainabilityReport, error) {
	metrics, err := s.Metrics.Get(ctx, tenant, designID)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, fmt.Errorf("environmental metrics not found for design %s, run analysis first", designID)
	}
	return &SustainabilityReport{
		SustainabilityIndex:       metrics.SustainabilityIndex,
		EnergyScore:               metrics.EnergyEfficiencyScore,
		NaturalLightingPercentage: metrics.NaturalLightingPercentage,
		PassiveDesignFactors:      metrics.PassiveDesignFactors,
		Recommendations:           metrics.AnalysisDetails.Recommendations,
	}, nil
}

// ComplianceStatus reads the stored compliance result for a design
func (s *Service) ComplianceStatus(ctx context.Context, tenant, designID string) (*compliance.CheckResult, error) {
	result, err := s.Compliance.Get(ctx, tenant, designID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("compliance result not found for design %s, run check first", designID)
	}
	return result, nil
}

// Summary aggregates tenant analytics across projects, designs and scores
func (s *Service) Summary(ctx context.Context, tenant string) (map[string]any, error) {
	totalProjects, err := s.Projects.Count(ctx, tenant)
	if err != nil {
		return nil, err
	}
	byType, err := s.Designs.CountByType(ctx, tenant)
	if err != nil {
		return nil, err
	}
	byClimate, err := s.Designs.CountByClimate(ctx, tenant)
	if err != nil {
		return nil, err
	}
	totalDesigns := 0
	for _, n := range byType {
		totalDesigns += n
	}
	avgSustainability, avgEnergy, err := s.Metrics.Averages(ctx, tenant)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"total_projects":               totalProjects,
		"total_designs_generated":      totalDesigns,
		"average_sustainability_index": avgSustainability,
		"average_energy_score":         avgEnergy,
		"designs_by_type":              byType,
		"designs_by_climate_zone":      byClimate,
	}, nil
}

func (s *Service) resolve(ctx context.Context, tenant, projectID, designID string) (*projects.Project, *domain.Design, error) {
	project, err := s.Projects.Get(ctx, tenant, projects.ProjectID(projectID))
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, fmt.Errorf("project not found: %s", projectID)
	}
	design, err := s.Designs.Get(ctx, tenant, domain.DesignID(designID))
	if err != nil {
		return nil, nil, err
	}
	if design == nil {
		return nil, nil, fmt.Errorf("design not found: %s", designID)
	}
	return project, design, nil
}

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/archistudio/designcheck/internal/application/analysis"
	appdesigns "github.com/archistudio/designcheck/internal/application/designs"
	appprojects "github.com/archistudio/designcheck/internal/application/projects"
	domai "github.com/archistudio/designcheck/internal/domain/ai"
	domdesigns "github.com/archistudio/designcheck/internal/domain/designs"
	domprojects "github.com/archistudio/designcheck/internal/domain/projects"
	"github.com/archistudio/designcheck/internal/middleware"
)

type Router struct {
	projectsSvc *appprojects.Service
	designsSvc  *appdesigns.Service
	analysisSvc *appanalysis.Service
}

func NewRouter(projectsSvc *appprojects.Service, designsSvc *appdesigns.Service, analysisSvc *appanalysis.Service, health map[string]middleware.HealthChecker) http.Handler {
	r := &Router{projectsSvc: projectsSvc, designsSvc: designsSvc, analysisSvc: analysisSvc}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(health))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/projects", r.wrap(r.handleCreateProject))
		rt.Get("/projects/latest", r.wrap(r.handleLatestProjects))
		rt.Get("/projects/{id}", r.wrap(r.handleGetProject))

		rt.Post("/designs/generate", r.wrap(r.handleGenerateDesign))
		rt.Get("/designs/latest", r.wrap(r.handleLatestDesigns))
		rt.Get("/designs/{id}", r.wrap(r.handleGetDesign))

		rt.Post("/environment/analyze", r.wrap(r.handleAnalyzeEnvironment))
		rt.Get("/environment/{designID}/sustainability", r.wrap(r.handleSustainability))

		rt.Post("/compliance/check", r.wrap(r.handleCheckCompliance))
		rt.Get("/compliance/{designID}/status", r.wrap(r.handleComplianceStatus))

		rt.Get("/analytics/summary", r.wrap(r.handleSummary))
		rt.Get("/failures/latest", r.wrap(r.handleLatestFailures))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client-side input errors for the wrapper
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	if err == nil {
		return nil
	}
	return badRequestError{err: err}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var br badRequestError
			if errors.As(err, &br) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "not found") {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			if errors.Is(err, domai.ErrQuotaExceeded) {
				http.Error(w, "image generation quota exceeded", http.StatusTooManyRequests)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /v1/{tenant}/projects
func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		Name         string           `json:"name"`
		ClimateZone  string           `json:"climate_zone"`
		BuildingType string           `json:"building_type"`
		Latitude     float64          `json:"latitude"`
		Orientation  int              `json:"orientation"`
		Plot         domprojects.Plot `json:"plot"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.Name == "" {
		return badRequest(fmt.Errorf("name is required"))
	}
	if err := middleware.ValidateClimateZone(body.ClimateZone); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateBuildingType(body.BuildingType); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateLatitude(body.Latitude); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateOrientation(float64(body.Orientation)); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidatePlotDimensions(body.Plot.Length, body.Plot.Width); err != nil {
		return badRequest(err)
	}

	project, err := r.projectsSvc.Create(req.Context(), appprojects.CreateCommand{
		TenantID:     tenant,
		Name:         body.Name,
		ClimateZone:  body.ClimateZone,
		BuildingType: body.BuildingType,
		Latitude:     body.Latitude,
		Orientation:  body.Orientation,
		Plot:         body.Plot,
	})
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(project)
}

// GET /v1/{tenant}/projects/{id}
func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	project, err := r.projectsSvc.Get(req.Context(), tenant, domprojects.ProjectID(id))
	if err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project not found: %s", id)
	}
	return writeJSON(w, project)
}

// GET /v1/{tenant}/projects/latest?limit=20
func (r *Router) handleLatestProjects(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.projectsSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /v1/{tenant}/designs/generate
// Generation runs in the background; the response carries the queued state.
func (r *Router) handleGenerateDesign(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		ProjectID      string  `json:"project_id"`
		Prompt         string  `json:"prompt"`
		Seed           int64   `json:"seed"`
		GuidanceScale  float64 `json:"guidance_scale"`
		InferenceSteps int     `json:"inference_steps"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.ProjectID == "" {
		return badRequest(fmt.Errorf("project_id is required"))
	}
	if err := middleware.ValidatePrompt(body.Prompt); err != nil {
		return badRequest(err)
	}

	cmd := appdesigns.GenerateCommand{
		TenantID:       tenant,
		ProjectID:      body.ProjectID,
		Prompt:         body.Prompt,
		Seed:           body.Seed,
		GuidanceScale:  body.GuidanceScale,
		InferenceSteps: body.InferenceSteps,
	}

	middleware.IncrementGenerations()
	go func() {
		middleware.IncrementGenerationsRunning()
		defer middleware.DecrementGenerationsRunning()

		result, err := r.designsSvc.GenerateUntilDone(cmd)
		if err != nil {
			middleware.IncrementGenerationsFailed()
			fmt.Printf("background generation error for tenant=%s project=%s: %v\n",
				tenant, body.ProjectID, err)
			return
		}
		fmt.Printf("design generated: tenant=%s design=%s image=%s\n",
			tenant, result.ID, result.ImageURL)
	}()

	resp := map[string]any{
		"status":   "queued",
		"tenant":   tenant,
		"project":  body.ProjectID,
		"message":  "design generation started in background",
		"queuedAt": time.Now(),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(resp)
}

// GET /v1/{tenant}/designs/{id}
func (r *Router) handleGetDesign(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")

	design, err := r.designsSvc.Get(req.Context(), tenant, domdesigns.DesignID(id))
	if err != nil {
		return err
	}
	if design == nil {
		return fmt.Errorf("design not found: %s", id)
	}
	return writeJSON(w, design)
}

// GET /v1/{tenant}/designs/latest?limit=20
func (r *Router) handleLatestDesigns(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.designsSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

// POST /v1/{tenant}/environment/analyze
func (r *Router) handleAnalyzeEnvironment(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		ProjectID                 string          `json:"project_id"`
		DesignID                  string          `json:"design_id"`
		WindowRatio               float64         `json:"window_ratio"`
		WindowToWallRatio         float64         `json:"window_to_wall_ratio"`
		NaturalLightingPercentage float64         `json:"natural_lighting_percentage"`
		CrossVentilationPossible  *bool           `json:"cross_ventilation_possible"`
		PassiveDesignFactors      map[string]bool `json:"passive_design_factors"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.ProjectID == "" || body.DesignID == "" {
		return badRequest(fmt.Errorf("project_id and design_id are required"))
	}
	if err := middleware.ValidateRatio("window_ratio", body.WindowRatio); err != nil {
		return badRequest(err)
	}
	if err := middleware.ValidateRatio("window_to_wall_ratio", body.WindowToWallRatio); err != nil {
		return badRequest(err)
	}

	middleware.IncrementAnalyses()
	result, err := r.analysisSvc.AnalyzeEnvironment(req.Context(), appanalysis.AnalyzeCommand{
		TenantID:                  tenant,
		ProjectID:                 body.ProjectID,
		DesignID:                  body.DesignID,
		WindowRatio:               body.WindowRatio,
		WindowToWallRatio:         body.WindowToWallRatio,
		NaturalLightingPercentage: body.NaturalLightingPercentage,
		CrossVentilationPossible:  body.CrossVentilationPossible,
		PassiveDesignFactors:      body.PassiveDesignFactors,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /v1/{tenant}/environment/{designID}/sustainability
func (r *Router) handleSustainability(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	designID := chi.URLParam(req, "designID")

	report, err := r.analysisSvc.Sustainability(req.Context(), tenant, designID)
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// POST /v1/{tenant}/compliance/check
func (r *Router) handleCheckCompliance(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		ProjectID      string  `json:"project_id"`
		DesignID       string  `json:"design_id"`
		TotalBuiltArea float64 `json:"total_built_area"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest(err)
	}
	if body.ProjectID == "" || body.DesignID == "" {
		return badRequest(fmt.Errorf("project_id and design_id are required"))
	}

	middleware.IncrementComplianceChecks()
	result, err := r.analysisSvc.CheckCompliance(req.Context(), appanalysis.CheckCommand{
		TenantID:       tenant,
		ProjectID:      body.ProjectID,
		DesignID:       body.DesignID,
		TotalBuiltArea: body.TotalBuiltArea,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /v1/{tenant}/compliance/{designID}/status
func (r *Router) handleComplianceStatus(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	designID := chi.URLParam(req, "designID")

	result, err := r.analysisSvc.ComplianceStatus(req.Context(), tenant, designID)
	if err != nil {
		return err
	}
	return writeJSON(w, result)
}

// GET /v1/{tenant}/analytics/summary
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	summary, err := r.analysisSvc.Summary(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, summary)
}

// GET /v1/{tenant}/failures/latest?limit=20
func (r *Router) handleLatestFailures(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.designsSvc.LatestFailures(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	return writeJSON(w, list)
}

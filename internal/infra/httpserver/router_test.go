package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	appanalysis "github.com/archistudio/designcheck/internal/application/analysis"
	appdesigns "github.com/archistudio/designcheck/internal/application/designs"
	appprojects "github.com/archistudio/designcheck/internal/application/projects"
	domai "github.com/archistudio/designcheck/internal/domain/ai"
	"github.com/archistudio/designcheck/internal/domain/compliance"
	domdesigns "github.com/archistudio/designcheck/internal/domain/designs"
	"github.com/archistudio/designcheck/internal/domain/environment"
	"github.com/archistudio/designcheck/internal/domain/genfailures"
	domprojects "github.com/archistudio/designcheck/internal/domain/projects"
	"github.com/archistudio/designcheck/internal/middleware"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memProjects struct {
	mu    sync.Mutex
	items map[string]*domprojects.Project
}

func newMemProjects() *memProjects {
	return &memProjects{items: make(map[string]*domprojects.Project)}
}

func (m *memProjects) Save(_ context.Context, p *domprojects.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[string(p.ID)] = p
	return nil
}

func (m *memProjects) Get(_ context.Context, tenant string, id domprojects.ProjectID) (*domprojects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[string(id)]
	if !ok || p.TenantID != tenant {
		return nil, nil
	}
	return p, nil
}

func (m *memProjects) Latest(_ context.Context, tenant string, limit int) ([]*domprojects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domprojects.Project
	for _, p := range m.items {
		if p.TenantID == tenant {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjects) Count(_ context.Context, tenant string) (int, error) {
	list, _ := m.Latest(context.Background(), tenant, 0)
	return len(list), nil
}

type memDesigns struct {
	mu    sync.Mutex
	items map[string]*domdesigns.Design
}

func newMemDesigns() *memDesigns {
	return &memDesigns{items: make(map[string]*domdesigns.Design)}
}

func (m *memDesigns) Save(_ context.Context, d *domdesigns.Design) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[string(d.ID)] = d
	return nil
}

func (m *memDesigns) Get(_ context.Context, tenant string, id domdesigns.DesignID) (*domdesigns.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[string(id)]
	if !ok || d.TenantID != tenant {
		return nil, nil
	}
	return d, nil
}

func (m *memDesigns) Latest(_ context.Context, tenant string, limit int) ([]*domdesigns.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domdesigns.Design
	for _, d := range m.items {
		if d.TenantID == tenant {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDesigns) UpdateStatus(_ context.Context, tenant string, id domdesigns.DesignID, status domdesigns.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.items[string(id)]; ok && d.TenantID == tenant {
		d.Status = status
	}
	return nil
}

func (m *memDesigns) CountByType(_ context.Context, tenant string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int)
	for _, d := range m.items {
		if d.TenantID == tenant {
			out[string(d.DesignType)]++
		}
	}
	return out, nil
}

func (m *memDesigns) CountByClimate(_ context.Context, tenant string) (map[string]int, error) {
	return map[string]int{}, nil
}

type memMetrics struct {
	mu    sync.Mutex
	items map[string]environment.AnalysisResult
}

func newMemMetrics() *memMetrics {
	return &memMetrics{items: make(map[string]environment.AnalysisResult)}
}

func (m *memMetrics) Upsert(_ context.Context, tenant, projectID, designID string, res environment.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tenant+"/"+designID] = res
	return nil
}

func (m *memMetrics) Get(_ context.Context, tenant, designID string) (*environment.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[tenant+"/"+designID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (m *memMetrics) Averages(_ context.Context, tenant string) (float64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sustain, energy float64
	var n int
	for _, res := range m.items {
		sustain += res.SustainabilityIndex
		energy += res.EnergyEfficiencyScore
		n++
	}
	if n == 0 {
		return 0, 0, nil
	}
	return sustain / float64(n), energy / float64(n), nil
}

type memCompliance struct {
	mu    sync.Mutex
	items map[string]compliance.CheckResult
}

func newMemCompliance() *memCompliance {
	return &memCompliance{items: make(map[string]compliance.CheckResult)}
}

func (m *memCompliance) Upsert(_ context.Context, tenant, projectID, designID string, res compliance.CheckResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[tenant+"/"+designID] = res
	return nil
}

func (m *memCompliance) Get(_ context.Context, tenant, designID string) (*compliance.CheckResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[tenant+"/"+designID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

type memFailures struct {
	mu    sync.Mutex
	items []*genfailures.Failure
}

func (m *memFailures) Save(_ context.Context, f *genfailures.Failure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, f)
	return nil
}

func (m *memFailures) Latest(_ context.Context, tenant string, limit int) ([]*genfailures.Failure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*genfailures.Failure
	for _, f := range m.items {
		if f.TenantID == tenant {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeAI struct {
	generateErr error
}

func (f *fakeAI) GenerateImage(_ context.Context, req domai.GenerateRequest) (domai.GenerateResult, error) {
	if f.generateErr != nil {
		return domai.GenerateResult{}, f.generateErr
	}
	seed := req.Seed
	if seed == 0 {
		seed = 42
	}
	return domai.GenerateResult{
		ImagePNG:       []byte("png-bytes"),
		ThumbnailPNG:   []byte("thumb-bytes"),
		EnhancedPrompt: "enhanced: " + req.Prompt,
		Seed:           seed,
	}, nil
}

func (f *fakeAI) Reason(_ context.Context, prompt, climateZone, buildingType string, orientation int) (string, error) {
	return "reasoning about " + prompt, nil
}

type memImages struct {
	mu   sync.Mutex
	keys []string
}

func (m *memImages) UploadImage(_ context.Context, key string, png []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "http://storage.local/" + key, nil
}

type testEnv struct {
	server   *httptest.Server
	projects *memProjects
	designs  *memDesigns
	metrics  *memMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	projects := newMemProjects()
	designs := newMemDesigns()
	metrics := newMemMetrics()
	comp := newMemCompliance()
	failures := &memFailures{}
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	projectsSvc := &appprojects.Service{Repo: projects, Clock: clock}
	designsSvc := &appdesigns.Service{
		Projects: projects,
		Designs:  designs,
		Failures: failures,
		AI:       &fakeAI{},
		Images:   &memImages{},
		Clock:    clock,
	}
	analysisSvc := &appanalysis.Service{
		Projects:   projects,
		Designs:    designs,
		Metrics:    metrics,
		Compliance: comp,
	}

	handler := NewRouter(projectsSvc, designsSvc, analysisSvc, map[string]middleware.HealthChecker{})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, projects: projects, designs: designs, metrics: metrics}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) seedProject(t *testing.T, tenant string) string {
	t.Helper()
	p := &domprojects.Project{
		ID:           "proj-1",
		TenantID:     tenant,
		Name:         "Lakeside Villa",
		ClimateZone:  "tropical",
		BuildingType: domprojects.BuildingResidential,
		Latitude:     -6.2,
		Orientation:  180,
		Plot: domprojects.Plot{
			Length: 40, Width: 30,
			SetbackNorth: 5, SetbackSouth: 5, SetbackEast: 5, SetbackWest: 5,
		},
		CreatedAt: time.Now(),
	}
	if err := e.projects.Save(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return string(p.ID)
}

func (e *testEnv) seedDesign(t *testing.T, tenant, projectID string) string {
	t.Helper()
	d := &domdesigns.Design{
		ID:         "design-1",
		TenantID:   tenant,
		ProjectID:  projectID,
		Prompt:     "a courtyard house",
		DesignType: domdesigns.TypeTextToDesign,
		Status:     domdesigns.StatusCompleted,
		CreatedAt:  time.Now(),
	}
	if err := e.designs.Save(context.Background(), d); err != nil {
		t.Fatalf("seed design: %v", err)
	}
	return string(d.ID)
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateAndGetProject(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/v1/acme/projects", map[string]any{
		"name":          "Hillside Office",
		"climate_zone":  "temperate",
		"building_type": "commercial",
		"latitude":      48.1,
		"orientation":   200,
		"plot": map[string]any{
			"length": 60, "width": 45,
			"setback_north": 4, "setback_south": 4, "setback_east": 4, "setback_west": 4,
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var created domprojects.Project
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("expected generated project id")
	}
	if created.TenantID != "acme" {
		t.Errorf("tenant = %q, want acme", created.TenantID)
	}

	resp = env.get(t, "/v1/acme/projects/"+string(created.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	var fetched domprojects.Project
	decodeBody(t, resp, &fetched)
	if fetched.Name != "Hillside Office" {
		t.Errorf("name = %q", fetched.Name)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{
			"climate_zone": "temperate", "building_type": "residential",
			"plot": map[string]any{"length": 10, "width": 10},
		}},
		{"unknown climate", map[string]any{
			"name": "x", "climate_zone": "arctic", "building_type": "residential",
			"plot": map[string]any{"length": 10, "width": 10},
		}},
		{"unknown building type", map[string]any{
			"name": "x", "climate_zone": "temperate", "building_type": "warehouse",
			"plot": map[string]any{"length": 10, "width": 10},
		}},
		{"orientation out of range", map[string]any{
			"name": "x", "climate_zone": "temperate", "building_type": "residential",
			"orientation": 400,
			"plot":        map[string]any{"length": 10, "width": 10},
		}},
		{"zero plot", map[string]any{
			"name": "x", "climate_zone": "temperate", "building_type": "residential",
			"plot": map[string]any{"length": 0, "width": 10},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.postJSON(t, "/v1/acme/projects", tc.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGenerateDesignRunsInBackground(t *testing.T) {
	env := newTestEnv(t)
	projectID := env.seedProject(t, "acme")

	resp := env.postJSON(t, "/v1/acme/designs/generate", map[string]any{
		"project_id": projectID,
		"prompt":     "a modern tropical villa with a green roof",
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	var queued map[string]any
	decodeBody(t, resp, &queued)
	if queued["status"] != "queued" {
		t.Fatalf("status field = %v, want queued", queued["status"])
	}

	// generation runs in a goroutine; poll until the record lands
	deadline := time.Now().Add(2 * time.Second)
	var done *domdesigns.Design
	for time.Now().Before(deadline) {
		list, _ := env.designs.Latest(context.Background(), "acme", 10)
		for _, d := range list {
			if d.Status == domdesigns.StatusCompleted {
				done = d
			}
		}
		if done != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if done == nil {
		t.Fatal("design never reached completed status")
	}
	if done.ImageURL == "" {
		t.Error("expected image url on completed design")
	}
	if done.Metadata == nil || done.Metadata.EnhancedPrompt == "" {
		t.Error("expected generation metadata with enhanced prompt")
	}
}

func TestGenerateDesignValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postJSON(t, "/v1/acme/designs/generate", map[string]any{
		"prompt": "no project id",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing project_id: status = %d, want 400", resp.StatusCode)
	}

	resp = env.postJSON(t, "/v1/acme/designs/generate", map[string]any{
		"project_id": "proj-1",
		"prompt":     "",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty prompt: status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeComplianceAndReadModels(t *testing.T) {
	env := newTestEnv(t)
	projectID := env.seedProject(t, "acme")
	designID := env.seedDesign(t, "acme", projectID)

	// read models 404 before any engine run
	resp := env.get(t, fmt.Sprintf("/v1/acme/environment/%s/sustainability", designID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("sustainability before analysis: status = %d, want 404", resp.StatusCode)
	}
	resp = env.get(t, fmt.Sprintf("/v1/acme/compliance/%s/status", designID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("compliance before check: status = %d, want 404", resp.StatusCode)
	}

	resp = env.postJSON(t, "/v1/acme/environment/analyze", map[string]any{
		"project_id":           projectID,
		"design_id":            designID,
		"window_ratio":         0.2,
		"window_to_wall_ratio": 0.25,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d, want 200", resp.StatusCode)
	}
	var analysis environment.AnalysisResult
	decodeBody(t, resp, &analysis)
	if analysis.SunScore <= 0 || analysis.SunScore > 100 {
		t.Errorf("sun score = %v, want (0,100]", analysis.SunScore)
	}
	if analysis.SustainabilityIndex <= 0 {
		t.Errorf("sustainability index = %v, want > 0", analysis.SustainabilityIndex)
	}

	resp = env.get(t, fmt.Sprintf("/v1/acme/environment/%s/sustainability", designID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sustainability status = %d, want 200", resp.StatusCode)
	}
	var report map[string]any
	decodeBody(t, resp, &report)
	if report["sustainability_index"].(float64) != analysis.SustainabilityIndex {
		t.Errorf("stored index = %v, analysis index = %v",
			report["sustainability_index"], analysis.SustainabilityIndex)
	}

	resp = env.postJSON(t, "/v1/acme/compliance/check", map[string]any{
		"project_id": projectID,
		"design_id":  designID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compliance check status = %d, want 200", resp.StatusCode)
	}
	var check compliance.CheckResult
	decodeBody(t, resp, &check)
	if !check.ComplianceStatus {
		t.Errorf("expected compliant result for generous plot, violations: %+v", check.Violations)
	}

	resp = env.get(t, fmt.Sprintf("/v1/acme/compliance/%s/status", designID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compliance status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAnalyzeUnknownDesign(t *testing.T) {
	env := newTestEnv(t)
	projectID := env.seedProject(t, "acme")

	resp := env.postJSON(t, "/v1/acme/environment/analyze", map[string]any{
		"project_id":           projectID,
		"design_id":            "ghost",
		"window_ratio":         0.2,
		"window_to_wall_ratio": 0.25,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)
	projectID := env.seedProject(t, "acme")
	designID := env.seedDesign(t, "acme", projectID)

	resp := env.postJSON(t, "/v1/acme/environment/analyze", map[string]any{
		"project_id":           projectID,
		"design_id":            designID,
		"window_ratio":         0.2,
		"window_to_wall_ratio": 0.25,
	})
	resp.Body.Close()

	resp = env.get(t, "/v1/acme/analytics/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d, want 200", resp.StatusCode)
	}
	var summary map[string]any
	decodeBody(t, resp, &summary)
	if summary["total_projects"].(float64) != 1 {
		t.Errorf("total_projects = %v, want 1", summary["total_projects"])
	}
	if summary["total_designs_generated"].(float64) != 1 {
		t.Errorf("total_designs_generated = %v, want 1", summary["total_designs_generated"])
	}
	if summary["average_sustainability_index"].(float64) <= 0 {
		t.Errorf("average_sustainability_index = %v, want > 0", summary["average_sustainability_index"])
	}
}

func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	env.seedProject(t, "acme")

	resp := env.get(t, "/v1/other/projects/proj-1")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-tenant read: status = %d, want 404", resp.StatusCode)
	}
}

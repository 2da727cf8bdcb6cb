package designs

import (
	"context"
	"errors"
	"testing"
	"time"

	domai "github.com/archistudio/designcheck/internal/domain/ai"
	domain "github.com/archistudio/designcheck/internal/domain/designs"
	"github.com/archistudio/designcheck/internal/domain/genfailures"
	"github.com/archistudio/designcheck/internal/domain/projects"
)

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

type stubProjects struct{ project *projects.Project }

func (s *stubProjects) Save(context.Context, *projects.Project) error { return nil }
func (s *stubProjects) Get(_ context.Context, tenant string, id projects.ProjectID) (*projects.Project, error) {
	if s.project != nil && s.project.ID == id {
		return s.project, nil
	}
	return nil, nil
}
func (s *stubProjects) Latest(context.Context, string, int) ([]*projects.Project, error) {
	return nil, nil
}
func (s *stubProjects) Count(context.Context, string) (int, error) { return 0, nil }

type stubDesigns struct {
	saved    []*domain.Design
	statuses []domain.Status
}

func (s *stubDesigns) Save(_ context.Context, d *domain.Design) error {
	s.saved = append(s.saved, d)
	return nil
}
func (s *stubDesigns) Get(context.Context, string, domain.DesignID) (*domain.Design, error) {
	return nil, nil
}
func (s *stubDesigns) Latest(context.Context, string, int) ([]*domain.Design, error) {
	return nil, nil
}
func (s *stubDesigns) UpdateStatus(_ context.Context, _ string, _ domain.DesignID, status domain.Status) error {
	s.statuses = append(s.statuses, status)
	return nil
}
func (s *stubDesigns) CountByType(context.Context, string) (map[string]int, error) {
	return nil, nil
}
func (s *stubDesigns) CountByClimate(context.Context, string) (map[string]int, error) {
	return nil, nil
}

type stubFailures struct{ saved []*genfailures.Failure }

func (s *stubFailures) Save(_ context.Context, f *genfailures.Failure) error {
	s.saved = append(s.saved, f)
	return nil
}
func (s *stubFailures) Latest(context.Context, string, int) ([]*genfailures.Failure, error) {
	return nil, nil
}

type stubAI struct {
	req         domai.GenerateRequest
	generateErr error
}

func (s *stubAI) GenerateImage(_ context.Context, req domai.GenerateRequest) (domai.GenerateResult, error) {
	s.req = req
	if s.generateErr != nil {
		return domai.GenerateResult{}, s.generateErr
	}
	return domai.GenerateResult{
		ImagePNG:       []byte("img"),
		ThumbnailPNG:   []byte("thumb"),
		EnhancedPrompt: "enhanced",
		Seed:           99,
	}, nil
}
func (s *stubAI) Reason(context.Context, string, string, string, int) (string, error) {
	return "solid passive design", nil
}

type stubImages struct {
	uploadErr error
	keys      []string
}

func (s *stubImages) UploadImage(_ context.Context, key string, _ []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.keys = append(s.keys, key)
	return "http://img.local/" + key, nil
}

func testProject() *projects.Project {
	return &projects.Project{
		ID:           "p1",
		TenantID:     "acme",
		Name:         "Test",
		ClimateZone:  "tropical",
		BuildingType: projects.BuildingResidential,
		Orientation:  180,
	}
}

func newService(ai *stubAI, images *stubImages) (*Service, *stubDesigns, *stubFailures) {
	designs := &stubDesigns{}
	failures := &stubFailures{}
	svc := &Service{
		Projects: &stubProjects{project: testProject()},
		Designs:  designs,
		Failures: failures,
		AI:       ai,
		Images:   images,
		Clock:    stubClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
	return svc, designs, failures
}

func TestGenerateHappyPath(t *testing.T) {
	ai := &stubAI{}
	images := &stubImages{}
	svc, designs, failures := newService(ai, images)

	res, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "p1",
		Prompt:    "a villa",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q, want completed", res.Status)
	}
	if res.ImageURL == "" || res.ThumbnailURL == "" {
		t.Errorf("missing artifact urls: %+v", res)
	}
	if res.AIReasoning == "" {
		t.Error("expected reasoning text")
	}

	// processing row first, completed row second
	if len(designs.saved) != 2 {
		t.Fatalf("saved %d design rows, want 2", len(designs.saved))
	}
	if designs.saved[0].Status != domain.StatusProcessing {
		t.Errorf("first save status = %q, want processing", designs.saved[0].Status)
	}
	final := designs.saved[1]
	if final.Status != domain.StatusCompleted {
		t.Errorf("final status = %q, want completed", final.Status)
	}
	if final.Seed != 99 {
		t.Errorf("final seed = %d, want the backend's 99", final.Seed)
	}
	if final.Metadata == nil || final.Metadata.EnhancedPrompt != "enhanced" {
		t.Errorf("metadata = %+v", final.Metadata)
	}
	if len(failures.saved) != 0 {
		t.Errorf("unexpected failures: %+v", failures.saved)
	}

	// defaults applied when the caller leaves the knobs at zero
	if ai.req.GuidanceScale != defaultGuidanceScale {
		t.Errorf("guidance = %v, want default %v", ai.req.GuidanceScale, defaultGuidanceScale)
	}
	if ai.req.InferenceSteps != defaultInferenceSteps {
		t.Errorf("steps = %v, want default %v", ai.req.InferenceSteps, defaultInferenceSteps)
	}
	// project context travels to the renderer
	if ai.req.ClimateZone != "tropical" || ai.req.Orientation != 180 {
		t.Errorf("request context = %+v", ai.req)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	svc, _, _ := newService(&stubAI{}, &stubImages{})

	_, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "p1",
	})
	if !errors.Is(err, domai.ErrEmptyPrompt) {
		t.Fatalf("err = %v, want ErrEmptyPrompt", err)
	}
}

func TestGenerateUnknownProject(t *testing.T) {
	svc, _, _ := newService(&stubAI{}, &stubImages{})

	_, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "missing",
		Prompt:    "a villa",
	})
	if err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestGenerateRendererFailure(t *testing.T) {
	ai := &stubAI{generateErr: errors.New("model overloaded")}
	svc, designs, failures := newService(ai, &stubImages{})

	res, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "p1",
		Prompt:    "a villa",
	})
	if err == nil {
		t.Fatal("expected error from renderer")
	}
	if res.Status != string(domain.StatusFailed) {
		t.Errorf("status = %q, want failed", res.Status)
	}
	if len(failures.saved) != 1 || failures.saved[0].Phase != "generate" {
		t.Errorf("failure log = %+v, want one generate-phase entry", failures.saved)
	}
	if len(designs.statuses) != 1 || designs.statuses[0] != domain.StatusFailed {
		t.Errorf("status updates = %v, want [failed]", designs.statuses)
	}
}

func TestGenerateUploadFailure(t *testing.T) {
	images := &stubImages{uploadErr: errors.New("bucket unavailable")}
	svc, _, failures := newService(&stubAI{}, images)

	_, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "p1",
		Prompt:    "a villa",
	})
	if err == nil {
		t.Fatal("expected error from upload")
	}
	if len(failures.saved) != 1 || failures.saved[0].Phase != "upload" {
		t.Errorf("failure log = %+v, want one upload-phase entry", failures.saved)
	}
}

func TestGenerateQuotaExceededPropagates(t *testing.T) {
	ai := &stubAI{generateErr: domai.ErrQuotaExceeded}
	svc, _, _ := newService(ai, &stubImages{})

	_, err := svc.Generate(context.Background(), GenerateCommand{
		TenantID:  "acme",
		ProjectID: "p1",
		Prompt:    "a villa",
	})
	if !errors.Is(err, domai.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

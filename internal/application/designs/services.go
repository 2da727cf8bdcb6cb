package designs

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/archistudio/designcheck/internal/application"
	domai "github.com/archistudio/designcheck/internal/domain/ai"
	domain "github.com/archistudio/designcheck/internal/domain/designs"
	"github.com/archistudio/designcheck/internal/domain/genfailures"
	"github.com/archistudio/designcheck/internal/domain/projects"
)

// generation defaults, matching the tuning the renderer was calibrated with
const (
	defaultGuidanceScale  = 7.5
	defaultInferenceSteps = 50
)

// Service implements use-cases for Design generation
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Projects projects.Repository
	Designs  domain.Repository
	Failures genfailures.Repository
	AI       domai.Client
	Images   domain.ImageStore
	Clock    application.Clock
}

// Command to generate a design
type GenerateCommand struct {
	TenantID       string
	ProjectID      string
	Prompt         string
	Seed           int64
	GuidanceScale  float64
	InferenceSteps int
}

type GenerateResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	AIReasoning  string `json:"ai_reasoning,omitempty"`
}

// GenerateUntilDone runs generation with context.Background()
// meant to be called from a goroutine in the router so it survives the request
func (s *Service) GenerateUntilDone(cmd GenerateCommand) (GenerateResult, error) {
	return s.Generate(context.Background(), cmd)
}

// Generate renders the design, uploads the artifacts, and persists the record
func (s *Service) Generate(ctx context.Context, cmd GenerateCommand) (GenerateResult, error) {
	if cmd.Prompt == "" {
		return GenerateResult{}, domai.ErrEmptyPrompt
	}

	project, err := s.Projects.Get(ctx, cmd.TenantID, projects.ProjectID(cmd.ProjectID))
	if err != nil {
		return GenerateResult{}, err
	}
	if project == nil {
		return GenerateResult{}, fmt.Errorf("project not found: %s", cmd.ProjectID)
	}

	now := s.Clock.Now()
	id := uuid.New().String()

	guidance := cmd.GuidanceScale
	if guidance == 0 {
		guidance = defaultGuidanceScale
	}
	steps := cmd.InferenceSteps
	if steps == 0 {
		steps = defaultInferenceSteps
	}

	// Create an initial design row so we always have an ID to reference
	initial := &domain.Design{
		ID:             domain.DesignID(id),
		TenantID:       cmd.TenantID,
		ProjectID:      cmd.ProjectID,
		Prompt:         cmd.Prompt,
		DesignType:     domain.TypeTextToDesign,
		Status:         domain.StatusProcessing,
		Seed:           cmd.Seed,
		GuidanceScale:  guidance,
		InferenceSteps: steps,
		CreatedAt:      now,
	}
	if err := s.Designs.Save(ctx, initial); err != nil {
		return GenerateResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	res, err := s.AI.GenerateImage(ctx, domai.GenerateRequest{
		Prompt:         cmd.Prompt,
		ClimateZone:    project.ClimateZone,
		BuildingType:   string(project.BuildingType),
		Orientation:    project.Orientation,
		Seed:           cmd.Seed,
		GuidanceScale:  guidance,
		InferenceSteps: steps,
	})
	if err != nil {
		s.recordFailure(cmd, id, "generate", err)
		_ = s.Designs.UpdateStatus(context.Background(), cmd.TenantID, domain.DesignID(id), domain.StatusFailed)
		return GenerateResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	imageKey := fmt.Sprintf("%s/designs/%s.png", cmd.TenantID, id)
	imageURL, err := s.Images.UploadImage(ctx, imageKey, res.ImagePNG)
	if err != nil {
		s.recordFailure(cmd, id, "upload", err)
		_ = s.Designs.UpdateStatus(context.Background(), cmd.TenantID, domain.DesignID(id), domain.StatusFailed)
		return GenerateResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	thumbKey := fmt.Sprintf("%s/designs/thumb_%s.png", cmd.TenantID, id)
	thumbURL, err := s.Images.UploadImage(ctx, thumbKey, res.ThumbnailPNG)
	if err != nil {
		// image itself is already stored; keep going without the thumbnail
		thumbURL = ""
	}

	// reasoning is advisory, a failure here never fails the design
	reasoning, rerr := s.AI.Reason(ctx, cmd.Prompt, project.ClimateZone, string(project.BuildingType), project.Orientation)
	if rerr != nil {
		reasoning = ""
	}

	final := &domain.Design{
		ID:             domain.DesignID(id),
		TenantID:       cmd.TenantID,
		ProjectID:      cmd.ProjectID,
		Prompt:         cmd.Prompt,
		DesignType:     domain.TypeTextToDesign,
		Status:         domain.StatusCompleted,
		Seed:           res.Seed,
		GuidanceScale:  guidance,
		InferenceSteps: steps,
		ImageURL:       imageURL,
		ThumbnailURL:   thumbURL,
		AIReasoning:    reasoning,
		Metadata: &domain.GenerationMetadata{
			OriginalPrompt: cmd.Prompt,
			EnhancedPrompt: res.EnhancedPrompt,
			ClimateZone:    project.ClimateZone,
			BuildingType:   string(project.BuildingType),
			Orientation:    project.Orientation,
			Seed:           res.Seed,
			GuidanceScale:  guidance,
			InferenceSteps: steps,
			GeneratedAt:    now,
		},
		CreatedAt: now,
	}
	if err := s.Designs.Save(ctx, final); err != nil {
		s.recordFailure(cmd, id, "persist", err)
		return GenerateResult{ID: id, Status: string(domain.StatusFailed)}, err
	}

	return GenerateResult{
		ID:           id,
		Status:       string(domain.StatusCompleted),
		ImageURL:     imageURL,
		ThumbnailURL: thumbURL,
		AIReasoning:  reasoning,
	}, nil
}

func (s *Service) recordFailure(cmd GenerateCommand, designID, phase string, cause error) {
	_ = s.Failures.Save(context.Background(), &genfailures.Failure{
		TenantID:  cmd.TenantID,
		DesignID:  designID,
		ProjectID: cmd.ProjectID,
		Phase:     phase,
		Message:   cause.Error(),
		CreatedAt: s.Clock.Now(),
	})
}

// Get fetches one design by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.DesignID) (*domain.Design, error) {
	return s.Designs.Get(ctx, tenant, id)
}

// Latest fetches the last N designs
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Design, error) {
	return s.Designs.Latest(ctx, tenant, limit)
}

// LatestFailures fetches the last N generation failures
func (s *Service) LatestFailures(ctx context.Context, tenant string, limit int) ([]*genfailures.Failure, error) {
	return s.Failures.Latest(ctx, tenant, limit)
}

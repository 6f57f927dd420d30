// Package planning implements area, phase and parcel use cases.
package planning

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
)

// AreaService handles area operations
type AreaService struct {
	projectRepo project.ProjectRepository
	areaRepo    planning.AreaRepository
}

// NewAreaService creates a new AreaService
func NewAreaService(projectRepo project.ProjectRepository, areaRepo planning.AreaRepository) *AreaService {
	return &AreaService{projectRepo: projectRepo, areaRepo: areaRepo}
}

// Create creates an area in a project
func (s *AreaService) Create(ctx context.Context, projectID uuid.UUID, req CreateAreaRequest) (*AreaResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	if err := ensureUniqueCode(ctx, s.areaRepo.ExistsByCode, projectID, req.Code, "Area"); err != nil {
		return nil, err
	}

	area, err := planning.NewArea(projectID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	area.SortOrder = req.SortOrder
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// List lists the areas of a project
func (s *AreaService) List(ctx context.Context, projectID uuid.UUID) ([]AreaResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	areas, err := s.areaRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]AreaResponse, len(areas))
	for i := range areas {
		out[i] = ToAreaResponse(&areas[i])
	}
	return out, nil
}

// Update updates an area
func (s *AreaService) Update(ctx context.Context, id uuid.UUID, req UpdateAreaRequest) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Code), area.Code) {
		if err := ensureUniqueCode(ctx, s.areaRepo.ExistsByCode, area.ProjectID, req.Code, "Area"); err != nil {
			return nil, err
		}
	}
	if err := area.Update(req.Code, req.Name, req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	resp := ToAreaResponse(area)
	return &resp, nil
}

// Delete deletes an area. Phases and parcels in it are detached by the database.
func (s *AreaService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.areaRepo.Delete(ctx, id)
}

// PhaseService handles phase operations
type PhaseService struct {
	projectRepo project.ProjectRepository
	areaRepo    planning.AreaRepository
	phaseRepo   planning.PhaseRepository
}

// NewPhaseService creates a new PhaseService
func NewPhaseService(projectRepo project.ProjectRepository, areaRepo planning.AreaRepository, phaseRepo planning.PhaseRepository) *PhaseService {
	return &PhaseService{projectRepo: projectRepo, areaRepo: areaRepo, phaseRepo: phaseRepo}
}

// Create creates a phase, optionally inside an area of the same project
func (s *PhaseService) Create(ctx context.Context, projectID uuid.UUID, req CreatePhaseRequest) (*PhaseResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	if err := ensureUniqueCode(ctx, s.phaseRepo.ExistsByCode, projectID, req.Code, "Phase"); err != nil {
		return nil, err
	}
	area, err := findArea(ctx, s.areaRepo, req.AreaID)
	if err != nil {
		return nil, err
	}

	phase, err := planning.NewPhase(projectID, area, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	phase.SortOrder = req.SortOrder
	if err := s.phaseRepo.Save(ctx, phase); err != nil {
		return nil, err
	}
	resp := ToPhaseResponse(phase)
	return &resp, nil
}

// List lists the phases of a project
func (s *PhaseService) List(ctx context.Context, projectID uuid.UUID) ([]PhaseResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	phases, err := s.phaseRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]PhaseResponse, len(phases))
	for i := range phases {
		out[i] = ToPhaseResponse(&phases[i])
	}
	return out, nil
}

// Update updates a phase
func (s *PhaseService) Update(ctx context.Context, id uuid.UUID, req UpdatePhaseRequest) (*PhaseResponse, error) {
	phase, err := s.phaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(req.Code), phase.Code) {
		if err := ensureUniqueCode(ctx, s.phaseRepo.ExistsByCode, phase.ProjectID, req.Code, "Phase"); err != nil {
			return nil, err
		}
	}
	area, err := findArea(ctx, s.areaRepo, req.AreaID)
	if err != nil {
		return nil, err
	}
	if err := phase.AssignArea(area); err != nil {
		return nil, err
	}
	if err := phase.Update(req.Code, req.Name, planning.PhaseStatus(req.Status), req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.phaseRepo.Save(ctx, phase); err != nil {
		return nil, err
	}
	resp := ToPhaseResponse(phase)
	return &resp, nil
}

// Delete deletes a phase
func (s *PhaseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.phaseRepo.Delete(ctx, id)
}

func ensureProject(ctx context.Context, repo project.ProjectRepository, id uuid.UUID) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("project")
	}
	return nil
}

func ensureUniqueCode(
	ctx context.Context,
	exists func(context.Context, uuid.UUID, string) (bool, error),
	projectID uuid.UUID,
	code, resource string,
) error {
	taken, err := exists(ctx, projectID, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError(shared.CodeAlreadyExists, resource+" with this code already exists in the project")
	}
	return nil
}

// findArea loads an optional reference. A missing area is a bad request,
// not a missing resource.
func findArea(ctx context.Context, repo planning.AreaRepository, id *uuid.UUID) (*planning.Area, error) {
	if id == nil {
		return nil, nil
	}
	area, err := repo.FindByID(ctx, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewInvalidInputError("area %s does not exist", *id)
	}
	return area, err
}

func findPhase(ctx context.Context, repo planning.PhaseRepository, id *uuid.UUID) (*planning.Phase, error) {
	if id == nil {
		return nil, nil
	}
	phase, err := repo.FindByID(ctx, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewInvalidInputError("phase %s does not exist", *id)
	}
	return phase, err
}

// Package project implements the project use cases: CRUD, boundary
// persistence and the project dashboard.
package project

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
)

// ProjectService handles project-related business operations
type ProjectService struct {
	projectRepo project.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	exists, err := s.projectRepo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Project with this name already exists")
	}

	p, err := project.NewProject(req.Name, project.ProjectType(req.ProjectType))
	if err != nil {
		return nil, err
	}
	if err := p.SetLocation(req.City, req.County, req.State); err != nil {
		return nil, err
	}
	p.Description = strings.TrimSpace(req.Description)
	p.StartDate = req.StartDate

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToProjectResponse(p)
	return &resp, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProjectResponse(p)
	return &resp, nil
}

// List retrieves a page of projects
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) (*shared.Paginated[ProjectResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ProjectType != "" {
		domainFilter.Filters["project_type"] = filter.ProjectType
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = strings.ToUpper(filter.State)
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
		domainFilter.OrderDir = filter.OrderDir
	}

	projects, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.projectRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates an existing project
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != p.Name {
		exists, err := s.projectRepo.ExistsByName(ctx, strings.TrimSpace(*req.Name))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Project with this name already exists")
		}
		if err := p.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ProjectType != nil {
		if err := p.SetType(project.ProjectType(*req.ProjectType)); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := p.ChangeStatus(project.Status(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.City != nil || req.County != nil || req.State != nil {
		city, county, state := p.City, p.County, p.State
		if req.City != nil {
			city = *req.City
		}
		if req.County != nil {
			county = *req.County
		}
		if req.State != nil {
			state = *req.State
		}
		if err := p.SetLocation(city, county, state); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate
	}

	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProjectResponse(p)
	return &resp, nil
}

// Delete deletes a project. Dependent rows go with it through ON DELETE CASCADE.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.projectRepo.Delete(ctx, id)
}

// SaveBoundary replaces the project's boundary and recomputes its acreage.
// The delete, insert and project update commit together or not at all.
func (s *ProjectService) SaveBoundary(ctx context.Context, id uuid.UUID, req SaveBoundaryRequest) (*BoundaryResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	boundary, err := project.NewBoundary(p.ID, project.BoundarySource(req.Source), req.Geometry)
	if err != nil {
		return nil, err
	}
	p.ApplyBoundary(boundary.Geometry, boundary.Acres)

	if err := s.projectRepo.ReplaceBoundary(ctx, p, boundary); err != nil {
		return nil, err
	}
	resp := ToBoundaryResponse(boundary)
	return &resp, nil
}

// GetBoundaries lists the stored boundaries of a project
func (s *ProjectService) GetBoundaries(ctx context.Context, id uuid.UUID) ([]BoundaryResponse, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	boundaries, err := s.projectRepo.FindBoundaries(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]BoundaryResponse, len(boundaries))
	for i := range boundaries {
		out[i] = ToBoundaryResponse(&boundaries[i])
	}
	return out, nil
}

func (s *ProjectService) ensureExists(ctx context.Context, id uuid.UUID) error {
	ok, err := s.projectRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("project")
	}
	return nil
}

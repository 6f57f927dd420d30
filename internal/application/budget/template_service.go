// Package budget holds the budget template library, the template copy into
// projects, and project budget categories, items, summaries and exports.
package budget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const applyLockTTL = 30 * time.Second

// Metrics records budget operations. *telemetry.AppMetrics satisfies it.
type Metrics interface {
	RecordTemplateApply(ctx context.Context, err error)
	RecordBudgetExport(ctx context.Context, format string)
}

type nopMetrics struct{}

func (nopMetrics) RecordTemplateApply(context.Context, error) {}
func (nopMetrics) RecordBudgetExport(context.Context, string) {}

// TemplateServiceDeps are the collaborators of TemplateService
type TemplateServiceDeps struct {
	Projects   project.ProjectRepository
	Templates  budget.TemplateRepository
	Categories budget.CategoryRepository
	Locker     shared.Locker
	Metrics    Metrics
	Logger     *zap.Logger
}

// TemplateService manages budget templates and copies them into projects
type TemplateService struct {
	projectRepo  project.ProjectRepository
	templateRepo budget.TemplateRepository
	categoryRepo budget.CategoryRepository
	locker       shared.Locker
	metrics      Metrics
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(deps TemplateServiceDeps) *TemplateService {
	s := &TemplateService{
		projectRepo:  deps.Projects,
		templateRepo: deps.Templates,
		categoryRepo: deps.Categories,
		locker:       deps.Locker,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Create creates an empty template
func (s *TemplateService) Create(ctx context.Context, req CreateTemplateRequest) (*TemplateResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	t, err := budget.NewTemplate(req.Name, req.Description, req.ProjectType)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, []budget.TemplateCategory{})
	return &resp, nil
}

// GetByID retrieves a template with its category tree
func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.templateRepo.FindCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, rows)
	return &resp, nil
}

// List retrieves a page of templates without their rows
func (s *TemplateService) List(ctx context.Context, filter TemplateListFilter) (*shared.Paginated[TemplateResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.ProjectType != "" {
		domainFilter.Filters["project_type"] = filter.ProjectType
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

	templates, err := s.templateRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.templateRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]TemplateResponse, len(templates))
	for i := range templates {
		items[i] = ToTemplateResponse(&templates[i], nil)
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a template header
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) != t.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}
	if err := t.Update(req.Name, req.Description, req.ProjectType); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, nil)
	return &resp, nil
}

// Delete deletes a template and its rows. Projects already seeded from it keep their categories.
func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.templateRepo.Delete(ctx, id)
}

// AddCategory adds a row to a template. Level 1 rows have no parent; any
// other row needs a parent in the same template exactly one level up.
func (s *TemplateService) AddCategory(ctx context.Context, templateID uuid.UUID, req AddTemplateCategoryRequest) (*CategoryTreeNode, error) {
	if _, err := s.templateRepo.FindByID(ctx, templateID); err != nil {
		return nil, err
	}
	if req.Level < 1 || req.Level > budget.MaxLevel {
		return nil, shared.NewInvalidInputError("level must be between 1 and %d", budget.MaxLevel)
	}

	var parent *budget.TemplateCategory
	switch {
	case req.Level == 1 && req.ParentID != nil:
		return nil, shared.NewInvalidInputError("level 1 categories cannot have a parent")
	case req.Level > 1 && req.ParentID == nil:
		return nil, shared.NewInvalidInputError("level %d categories require a parent", req.Level)
	case req.ParentID != nil:
		p, err := s.templateRepo.FindCategory(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewInvalidInputError("parent category not found")
			}
			return nil, err
		}
		if p.Level != req.Level-1 {
			return nil, shared.NewInvalidInputError("parent level is %d, expected %d", p.Level, req.Level-1)
		}
		parent = p
	}

	row, err := budget.NewTemplateCategory(templateID, parent, req.Code, req.Name, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.SaveCategory(ctx, row); err != nil {
		return nil, err
	}
	return &CategoryTreeNode{
		ID:        row.ID,
		ParentID:  row.ParentID,
		Level:     row.Level,
		Code:      row.Code,
		Name:      row.Name,
		SortOrder: row.SortOrder,
	}, nil
}

// ApplyTemplate copies a template's category tree into a project. The copy
// runs in one transaction under a per-project lock; a project that already
// has categories is a conflict unless OverwriteExisting is set.
func (s *TemplateService) ApplyTemplate(ctx context.Context, projectID uuid.UUID, req ApplyTemplateRequest) (resp *ApplyTemplateResponse, err error) {
	defer func() { s.metrics.RecordTemplateApply(ctx, err) }()

	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	if _, err := s.templateRepo.FindByID(ctx, req.TemplateID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("budget template")
		}
		return nil, err
	}
	rows, err := s.templateRepo.FindCategories(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	planned, err := budget.PlanTemplateCopy(projectID, req.TemplateID, rows)
	if err != nil {
		return nil, err
	}

	lock, err := s.locker.Obtain(ctx, "budget:apply:"+projectID.String(), applyLockTTL)
	if err != nil {
		if errors.Is(err, shared.ErrLockNotObtained) {
			return nil, shared.NewDomainError(shared.CodeConflict, "A template is already being applied to this project")
		}
		return nil, err
	}
	defer func() {
		if rerr := lock.Release(context.WithoutCancel(ctx)); rerr != nil {
			s.logger.Warn("Failed to release budget apply lock", zap.String("project_id", projectID.String()), zap.Error(rerr))
		}
	}()

	removed, err := s.categoryRepo.ApplyCopy(ctx, projectID, planned, req.OverwriteExisting)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Applied budget template",
		zap.String("project_id", projectID.String()),
		zap.String("template_id", req.TemplateID.String()),
		zap.Int("categories_created", len(planned)),
		zap.Int64("categories_removed", removed),
	)
	return &ApplyTemplateResponse{
		ProjectID:         projectID,
		TemplateID:        req.TemplateID,
		CategoriesCreated: len(planned),
		CategoriesRemoved: removed,
	}, nil
}

// SaveAsTemplate creates a template from a project's current category tree
func (s *TemplateService) SaveAsTemplate(ctx context.Context, projectID uuid.UUID, req SaveAsTemplateRequest) (*TemplateResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Project has no budget categories to save")
	}

	t, err := budget.NewTemplate(req.Name, req.Description, string(p.ProjectType))
	if err != nil {
		return nil, err
	}
	rows, err := budget.PlanTemplateFromProject(t.ID, categories)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.CreateWithCategories(ctx, t, rows); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t, derefRows(rows))
	return &resp, nil
}

func (s *TemplateService) ensureNameFree(ctx context.Context, name string) error {
	exists, err := s.templateRepo.ExistsByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Budget template with this name already exists")
	}
	return nil
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

func derefRows(rows []*budget.TemplateCategory) []budget.TemplateCategory {
	out := make([]budget.TemplateCategory, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}

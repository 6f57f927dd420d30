package budget

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/report"
	"go.uber.org/zap"
)

// BudgetServiceDeps are the collaborators of BudgetService
type BudgetServiceDeps struct {
	Projects   project.ProjectRepository
	Phases     planning.PhaseRepository
	Categories budget.CategoryRepository
	Items      budget.ItemRepository
	Exporters  map[string]report.Exporter
	Metrics    Metrics
	Logger     *zap.Logger
}

// BudgetService manages a project's budget categories and items
type BudgetService struct {
	projectRepo  project.ProjectRepository
	phaseRepo    planning.PhaseRepository
	categoryRepo budget.CategoryRepository
	itemRepo     budget.ItemRepository
	exporters    map[string]report.Exporter
	metrics      Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(deps BudgetServiceDeps) *BudgetService {
	s := &BudgetService{
		projectRepo:  deps.Projects,
		phaseRepo:    deps.Phases,
		categoryRepo: deps.Categories,
		itemRepo:     deps.Items,
		exporters:    deps.Exporters,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          time.Now,
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// ListCategories returns a project's category tree
func (s *BudgetService) ListCategories(ctx context.Context, projectID uuid.UUID) ([]CategoryTreeNode, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tree := categoryTree(categories)
	if tree == nil {
		tree = []CategoryTreeNode{}
	}
	return tree, nil
}

// CreateCategory creates a category, under ParentID when set
func (s *BudgetService) CreateCategory(ctx context.Context, projectID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	var parent *budget.Category
	if req.ParentID != nil {
		p, err := s.findCategory(ctx, *req.ParentID, "parent category")
		if err != nil {
			return nil, err
		}
		parent = p
	}
	c, err := budget.NewCategory(projectID, parent, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	c.SortOrder = req.SortOrder
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// UpdateCategory renames or reorders a category
func (s *BudgetService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Code, req.Name, req.SortOrder); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// DeleteCategory deletes a leaf category that has no items booked to it
func (s *BudgetService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError(shared.CodeConflict, "Category has child categories")
	}
	hasItems, err := s.itemRepo.ExistsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if hasItems {
		return shared.NewDomainError(shared.CodeConflict, "Category has budget items")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListItems retrieves a page of a project's budget items
func (s *BudgetService) ListItems(ctx context.Context, projectID uuid.UUID, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	domainFilter := shared.DefaultFilter()
	domainFilter.PageSize = 100
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.PhaseID != nil {
		domainFilter.Filters["phase_id"] = *filter.PhaseID
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

	items, err := s.itemRepo.FindByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.itemRepo.CountByProject(ctx, projectID, domainFilter)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	page := shared.NewPaginated(out, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// CreateItem books a line item to a category of the project
func (s *BudgetService) CreateItem(ctx context.Context, projectID uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	c, err := s.findCategory(ctx, req.CategoryID, "category")
	if err != nil {
		return nil, err
	}
	if c.ProjectID != projectID {
		return nil, shared.NewInvalidInputError("category belongs to a different project")
	}
	if err := s.checkPhase(ctx, projectID, req.PhaseID); err != nil {
		return nil, err
	}
	it, err := budget.NewItem(c, req.Description, req.Quantity, req.UnitCost)
	if err != nil {
		return nil, err
	}
	it.PhaseID = req.PhaseID
	it.Notes = strings.TrimSpace(req.Notes)
	if err := s.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}
	resp := ToItemResponse(it)
	return &resp, nil
}

// UpdateItem changes a line item and recomputes its amount
func (s *BudgetService) UpdateItem(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	it, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil && *req.CategoryID != it.CategoryID {
		c, err := s.findCategory(ctx, *req.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		if err := it.MoveTo(c); err != nil {
			return nil, err
		}
	}
	if err := s.checkPhase(ctx, it.ProjectID, req.PhaseID); err != nil {
		return nil, err
	}
	it.PhaseID = req.PhaseID
	if err := it.Update(req.Description, req.Quantity, req.UnitCost, req.Notes); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, it); err != nil {
		return nil, err
	}
	resp := ToItemResponse(it)
	return &resp, nil
}

// DeleteItem deletes a line item
func (s *BudgetService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.itemRepo.Delete(ctx, id)
}

// Summary rolls item totals up the project's category tree
func (s *BudgetService) Summary(ctx context.Context, projectID uuid.UUID) (*SummaryResponse, error) {
	if err := ensureProject(ctx, s.projectRepo, projectID); err != nil {
		return nil, err
	}
	summary, err := s.buildSummary(ctx, projectID)
	if err != nil {
		return nil, err
	}
	resp := ToSummaryResponse(projectID, summary)
	return &resp, nil
}

// Export renders the project budget summary as an xlsx workbook or a pdf report
func (s *BudgetService) Export(ctx context.Context, projectID uuid.UUID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = report.FormatXLSX
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, shared.NewInvalidInputError("unsupported export format %q", format)
	}
	p, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary, err := s.buildSummary(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	data, err := exporter.Export(ctx, report.BudgetDocument{
		ProjectName: p.Name,
		ProjectType: string(p.ProjectType),
		GeneratedAt: now,
		Summary:     summary,
	})
	if err != nil {
		return nil, fmt.Errorf("export budget as %s: %w", format, err)
	}
	s.metrics.RecordBudgetExport(ctx, format)
	s.logger.Info("Exported project budget",
		zap.String("project_id", projectID.String()),
		zap.String("format", format),
		zap.Int("bytes", len(data)),
	)
	return &ExportResult{
		FileName:    fmt.Sprintf("%s-budget-%s.%s", fileSlug(p.Name), now.Format("20060102"), format),
		ContentType: report.ContentType(format),
		Data:        data,
	}, nil
}

func (s *BudgetService) buildSummary(ctx context.Context, projectID uuid.UUID) (budget.Summary, error) {
	categories, err := s.categoryRepo.FindByProject(ctx, projectID)
	if err != nil {
		return budget.Summary{}, err
	}
	totals, err := s.itemRepo.TotalsByCategory(ctx, projectID)
	if err != nil {
		return budget.Summary{}, err
	}
	return budget.BuildSummary(categories, totals), nil
}

func (s *BudgetService) findCategory(ctx context.Context, id uuid.UUID, what string) (*budget.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidInputError("%s not found", what)
		}
		return nil, err
	}
	return c, nil
}

func (s *BudgetService) checkPhase(ctx context.Context, projectID uuid.UUID, phaseID *uuid.UUID) error {
	if phaseID == nil || s.phaseRepo == nil {
		return nil
	}
	ph, err := s.phaseRepo.FindByID(ctx, *phaseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewInvalidInputError("phase not found")
		}
		return err
	}
	if ph.ProjectID != projectID {
		return shared.NewInvalidInputError("phase belongs to a different project")
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func fileSlug(name string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "project"
	}
	return slug
}

package budget

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProjects struct {
	project.ProjectRepository
	projects map[uuid.UUID]*project.Project
}

func (s stubProjects) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.projects[id]
	return ok, nil
}

func (s stubProjects) FindByID(_ context.Context, id uuid.UUID) (*project.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.Template, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]budget.Template), args.Error(1)
}

func (m *MockTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *budget.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTemplateRepository) FindCategories(ctx context.Context, templateID uuid.UUID) ([]budget.TemplateCategory, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]budget.TemplateCategory), args.Error(1)
}

func (m *MockTemplateRepository) FindCategory(ctx context.Context, id uuid.UUID) (*budget.TemplateCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.TemplateCategory), args.Error(1)
}

func (m *MockTemplateRepository) SaveCategory(ctx context.Context, c *budget.TemplateCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockTemplateRepository) CreateWithCategories(ctx context.Context, t *budget.Template, rows []*budget.TemplateCategory) error {
	return m.Called(ctx, t, rows).Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]budget.Category, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]budget.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, c *budget.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryRepository) ApplyCopy(ctx context.Context, projectID uuid.UUID, categories []*budget.Category, overwrite bool) (int64, error) {
	args := m.Called(ctx, projectID, categories, overwrite)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Item), args.Error(1)
}

func (m *MockItemRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) ([]budget.Item, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).([]budget.Item), args.Error(1)
}

func (m *MockItemRepository) CountByProject(ctx context.Context, projectID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, projectID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) TotalsByCategory(ctx context.Context, projectID uuid.UUID) ([]budget.CategoryTotal, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]budget.CategoryTotal), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, it *budget.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type fakeLock struct{ released *bool }

func (l fakeLock) Release(context.Context) error {
	*l.released = true
	return nil
}

type fakeLocker struct {
	held     bool
	released bool
}

func (l *fakeLocker) Obtain(context.Context, string, time.Duration) (shared.Lock, error) {
	if l.held {
		return nil, shared.ErrLockNotObtained
	}
	return fakeLock{released: &l.released}, nil
}

type recordingMetrics struct {
	applies []error
	exports []string
}

func (m *recordingMetrics) RecordTemplateApply(_ context.Context, err error) {
	m.applies = append(m.applies, err)
}

func (m *recordingMetrics) RecordBudgetExport(_ context.Context, format string) {
	m.exports = append(m.exports, format)
}

type fakeExporter struct{ doc report.BudgetDocument }

func (e *fakeExporter) Export(_ context.Context, doc report.BudgetDocument) ([]byte, error) {
	e.doc = doc
	return []byte("rendered"), nil
}

func newProject(t *testing.T, name string) *project.Project {
	t.Helper()
	p, err := project.NewProject(name, project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	return p
}

// threeLevelTemplate builds 100 > 110 > 111 and 200 > 210, returned children first
// so the copy has to order them itself.
func threeLevelTemplate(t *testing.T) (*budget.Template, []budget.TemplateCategory) {
	t.Helper()
	tpl, err := budget.NewTemplate("MPC Standard", "", "master_planned")
	require.NoError(t, err)
	land, err := budget.NewTemplateCategory(tpl.ID, nil, "100", "Land", 10)
	require.NoError(t, err)
	purchase, err := budget.NewTemplateCategory(tpl.ID, land, "110", "Purchase", 10)
	require.NoError(t, err)
	deposit, err := budget.NewTemplateCategory(tpl.ID, purchase, "111", "Deposit", 10)
	require.NoError(t, err)
	hard, err := budget.NewTemplateCategory(tpl.ID, nil, "200", "Hard Costs", 20)
	require.NoError(t, err)
	grading, err := budget.NewTemplateCategory(tpl.ID, hard, "210", "Grading", 10)
	require.NoError(t, err)
	return tpl, []budget.TemplateCategory{*deposit, *grading, *purchase, *land, *hard}
}

func TestTemplateService_ApplyTemplate_CopiesTreeWithParents(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	tpl, rows := threeLevelTemplate(t)

	templates := new(MockTemplateRepository)
	categories := new(MockCategoryRepository)
	locker := &fakeLocker{}
	metrics := &recordingMetrics{}
	templates.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	templates.On("FindCategories", ctx, tpl.ID).Return(rows, nil)

	var copied []*budget.Category
	categories.On("ApplyCopy", ctx, p.ID, mock.Anything, false).
		Run(func(args mock.Arguments) { copied = args.Get(2).([]*budget.Category) }).
		Return(int64(0), nil)

	svc := NewTemplateService(TemplateServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Templates:  templates,
		Categories: categories,
		Locker:     locker,
		Metrics:    metrics,
	})
	resp, err := svc.ApplyTemplate(ctx, p.ID, ApplyTemplateRequest{TemplateID: tpl.ID})

	require.NoError(t, err)
	assert.Equal(t, len(rows), resp.CategoriesCreated)
	require.Len(t, copied, len(rows))
	assert.True(t, locker.released)
	require.Len(t, metrics.applies, 1)
	assert.NoError(t, metrics.applies[0])

	byID := make(map[uuid.UUID]*budget.Category, len(copied))
	byCode := make(map[string]*budget.Category, len(copied))
	for i, c := range copied {
		assert.Equal(t, p.ID, c.ProjectID)
		require.NotNil(t, c.SourceTemplateID)
		assert.Equal(t, tpl.ID, *c.SourceTemplateID)
		if c.ParentID != nil {
			parent, ok := byID[*c.ParentID]
			require.True(t, ok, "row %d inserted before its parent", i)
			assert.Equal(t, parent.Level+1, c.Level)
		}
		byID[c.ID] = c
		byCode[c.Code] = c
	}
	for _, r := range rows {
		c := byCode[r.Code]
		require.NotNil(t, c)
		assert.NotEqual(t, r.ID, c.ID)
		if r.ParentID == nil {
			assert.Nil(t, c.ParentID)
			continue
		}
		var parentCode string
		for _, pr := range rows {
			if pr.ID == *r.ParentID {
				parentCode = pr.Code
			}
		}
		assert.Equal(t, byCode[parentCode].ID, *c.ParentID)
	}
}

func TestTemplateService_ApplyTemplate_ExistingCategoriesConflict(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	tpl, rows := threeLevelTemplate(t)

	templates := new(MockTemplateRepository)
	categories := new(MockCategoryRepository)
	metrics := &recordingMetrics{}
	templates.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	templates.On("FindCategories", ctx, tpl.ID).Return(rows, nil)
	categories.On("ApplyCopy", ctx, p.ID, mock.Anything, false).
		Return(int64(0), shared.NewDomainError(shared.CodeConflict, "Project already has budget categories"))

	svc := NewTemplateService(TemplateServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Templates:  templates,
		Categories: categories,
		Locker:     &fakeLocker{},
		Metrics:    metrics,
	})
	_, err := svc.ApplyTemplate(ctx, p.ID, ApplyTemplateRequest{TemplateID: tpl.ID})

	assert.True(t, errors.Is(err, shared.ErrConflict))
	require.Len(t, metrics.applies, 1)
	assert.Error(t, metrics.applies[0])
}

func TestTemplateService_ApplyTemplate_LockHeld(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	tpl, rows := threeLevelTemplate(t)

	templates := new(MockTemplateRepository)
	categories := new(MockCategoryRepository)
	templates.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	templates.On("FindCategories", ctx, tpl.ID).Return(rows, nil)

	svc := NewTemplateService(TemplateServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Templates:  templates,
		Categories: categories,
		Locker:     &fakeLocker{held: true},
	})
	_, err := svc.ApplyTemplate(ctx, p.ID, ApplyTemplateRequest{TemplateID: tpl.ID, OverwriteExisting: true})

	assert.True(t, errors.Is(err, shared.ErrConflict))
	categories.AssertNotCalled(t, "ApplyCopy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_ApplyTemplate_NotFound(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	templateID := uuid.New()
	templates := new(MockTemplateRepository)
	templates.On("FindByID", ctx, templateID).Return(nil, shared.ErrNotFound)

	svc := NewTemplateService(TemplateServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Templates:  templates,
		Categories: new(MockCategoryRepository),
		Locker:     &fakeLocker{},
	})

	_, err := svc.ApplyTemplate(ctx, uuid.New(), ApplyTemplateRequest{TemplateID: templateID})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = svc.ApplyTemplate(ctx, p.ID, ApplyTemplateRequest{TemplateID: templateID})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestTemplateService_AddCategory_LevelRules(t *testing.T) {
	ctx := context.Background()
	tpl, err := budget.NewTemplate("Infill", "", "")
	require.NoError(t, err)
	root, err := budget.NewTemplateCategory(tpl.ID, nil, "100", "Land", 0)
	require.NoError(t, err)

	templates := new(MockTemplateRepository)
	templates.On("FindByID", ctx, tpl.ID).Return(tpl, nil)
	templates.On("FindCategory", ctx, root.ID).Return(root, nil)
	templates.On("SaveCategory", ctx, mock.Anything).Return(nil)
	svc := NewTemplateService(TemplateServiceDeps{Templates: templates})

	tests := []struct {
		name    string
		req     AddTemplateCategoryRequest
		wantErr bool
	}{
		{"root without parent", AddTemplateCategoryRequest{Level: 1, Code: "200", Name: "Hard"}, false},
		{"root with parent", AddTemplateCategoryRequest{Level: 1, ParentID: &root.ID, Code: "200", Name: "Hard"}, true},
		{"child without parent", AddTemplateCategoryRequest{Level: 2, Code: "110", Name: "Purchase"}, true},
		{"child one level down", AddTemplateCategoryRequest{Level: 2, ParentID: &root.ID, Code: "110", Name: "Purchase"}, false},
		{"skipped level", AddTemplateCategoryRequest{Level: 3, ParentID: &root.ID, Code: "111", Name: "Deposit"}, true},
		{"too deep", AddTemplateCategoryRequest{Level: 5, ParentID: &root.ID, Code: "x", Name: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := svc.AddCategory(ctx, tpl.ID, tt.req)
			if tt.wantErr {
				assert.True(t, errors.Is(err, shared.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Level, node.Level)
		})
	}
}

func TestTemplateService_ImportTemplate(t *testing.T) {
	ctx := context.Background()
	f, err := ParseTemplateYAML(strings.NewReader(`
name: Subdivision Basic
project_type: subdivision
categories:
  - code: "100"
    name: Land
    children:
      - code: "110"
        name: Purchase Price
      - code: "120"
        name: Closing Costs
        sort_order: 5
  - code: "200"
    name: Site Work
`))
	require.NoError(t, err)

	templates := new(MockTemplateRepository)
	templates.On("ExistsByName", ctx, "Subdivision Basic").Return(false, nil)
	var saved []*budget.TemplateCategory
	templates.On("CreateWithCategories", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]*budget.TemplateCategory) }).
		Return(nil)

	resp, err := NewTemplateService(TemplateServiceDeps{Templates: templates}).ImportTemplate(ctx, f)

	require.NoError(t, err)
	require.Len(t, saved, 4)
	assert.Equal(t, "100", saved[0].Code)
	assert.Equal(t, saved[0].ID, *saved[1].ParentID)
	assert.Equal(t, 5, saved[2].SortOrder)
	assert.Nil(t, saved[3].ParentID)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "120", resp.Categories[0].Children[0].Code)
}

func TestParseTemplateYAML_Rejects(t *testing.T) {
	_, err := ParseTemplateYAML(strings.NewReader(""))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = ParseTemplateYAML(strings.NewReader("name: x\ncolour: red\ncategories: []\n"))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = ParseTemplateYAML(strings.NewReader("name: x\n"))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestBudgetService_DeleteCategory_WithChildren(t *testing.T) {
	ctx := context.Background()
	c, err := budget.NewCategory(uuid.New(), nil, "100", "Land")
	require.NoError(t, err)

	categories := new(MockCategoryRepository)
	categories.On("FindByID", ctx, c.ID).Return(c, nil)
	categories.On("HasChildren", ctx, c.ID).Return(true, nil)

	err = NewBudgetService(BudgetServiceDeps{Categories: categories, Items: new(MockItemRepository)}).DeleteCategory(ctx, c.ID)

	assert.True(t, errors.Is(err, shared.ErrConflict))
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBudgetService_CreateItem(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	c, err := budget.NewCategory(p.ID, nil, "200", "Site Work")
	require.NoError(t, err)

	categories := new(MockCategoryRepository)
	items := new(MockItemRepository)
	categories.On("FindByID", ctx, c.ID).Return(c, nil)
	items.On("Save", ctx, mock.Anything).Return(nil)

	svc := NewBudgetService(BudgetServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Categories: categories,
		Items:      items,
	})
	resp, err := svc.CreateItem(ctx, p.ID, CreateItemRequest{
		CategoryID:  c.ID,
		Description: "Mass grading",
		Quantity:    decimal.RequireFromString("120.5"),
		UnitCost:    decimal.RequireFromString("3.333"),
	})

	require.NoError(t, err)
	assert.Equal(t, "401.63", resp.Amount.String())

	_, err = svc.CreateItem(ctx, uuid.New(), CreateItemRequest{CategoryID: c.ID, Description: "x"})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBudgetService_Export(t *testing.T) {
	ctx := context.Background()
	p := newProject(t, "Red Valley Ranch")
	land, err := budget.NewCategory(p.ID, nil, "100", "Land")
	require.NoError(t, err)

	categories := new(MockCategoryRepository)
	items := new(MockItemRepository)
	categories.On("FindByProject", ctx, p.ID).Return([]budget.Category{*land}, nil)
	items.On("TotalsByCategory", ctx, p.ID).Return([]budget.CategoryTotal{
		{CategoryID: land.ID, Total: decimal.NewFromInt(2500000), ItemCount: 2},
	}, nil)

	xlsx := &fakeExporter{}
	metrics := &recordingMetrics{}
	svc := NewBudgetService(BudgetServiceDeps{
		Projects:   stubProjects{projects: map[uuid.UUID]*project.Project{p.ID: p}},
		Categories: categories,
		Items:      items,
		Exporters:  map[string]report.Exporter{report.FormatXLSX: xlsx},
		Metrics:    metrics,
	})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	out, err := svc.Export(ctx, p.ID, "XLSX")

	require.NoError(t, err)
	assert.Equal(t, "red-valley-ranch-budget-20260301.xlsx", out.FileName)
	assert.Equal(t, report.ContentType(report.FormatXLSX), out.ContentType)
	assert.Equal(t, []byte("rendered"), out.Data)
	assert.Equal(t, "Red Valley Ranch", xlsx.doc.ProjectName)
	assert.True(t, xlsx.doc.Summary.GrandTotal.Equal(decimal.NewFromInt(2500000)))
	assert.Equal(t, []string{"xlsx"}, metrics.exports)

	_, err = svc.Export(ctx, p.ID, "docx")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/finance"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/inventory"
	"github.com/landscape/backend/internal/domain/planning"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) FindBoundaries(ctx context.Context, projectID uuid.UUID) ([]project.Boundary, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]project.Boundary), args.Error(1)
}

func (m *MockProjectRepository) ReplaceBoundary(ctx context.Context, p *project.Project, b *project.Boundary) error {
	args := m.Called(ctx, p, b)
	return args.Error(0)
}

func newTestProject(t *testing.T, name string) *project.Project {
	t.Helper()
	p, err := project.NewProject(name, project.ProjectTypeMasterPlanned)
	require.NoError(t, err)
	return p
}

func squarePolygon(t *testing.T) gis.Geometry {
	t.Helper()
	g, err := gis.NewPolygon([][]gis.Position{{
		{-111.90, 33.40}, {-111.89, 33.40}, {-111.89, 33.41}, {-111.90, 33.41}, {-111.90, 33.40},
	}})
	require.NoError(t, err)
	return g
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates project", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("ExistsByName", ctx, "Sunset Ranch").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*project.Project")).Return(nil)

		svc := NewProjectService(repo)
		resp, err := svc.Create(ctx, CreateProjectRequest{
			Name:        "  Sunset Ranch ",
			ProjectType: "master_planned",
			City:        "Mesa",
			State:       "az",
		})

		require.NoError(t, err)
		assert.Equal(t, "Sunset Ranch", resp.Name)
		assert.Equal(t, "AZ", resp.State)
		assert.Equal(t, "planning", resp.Status)
		assert.True(t, resp.TotalAcres.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("ExistsByName", ctx, "Sunset Ranch").Return(true, nil)

		svc := NewProjectService(repo)
		_, err := svc.Create(ctx, CreateProjectRequest{Name: "Sunset Ranch", ProjectType: "subdivision"})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, shared.CodeAlreadyExists, domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid state", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("ExistsByName", ctx, "Mesa Flats").Return(false, nil)

		svc := NewProjectService(repo)
		_, err := svc.Create(ctx, CreateProjectRequest{Name: "Mesa Flats", ProjectType: "multifamily", State: "ARZ"})

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	p := newTestProject(t, "Old Name")

	repo := new(MockProjectRepository)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("ExistsByName", ctx, "New Name").Return(false, nil)
	repo.On("Save", ctx, p).Return(nil)

	name, status, county := "New Name", "active", "Maricopa"
	svc := NewProjectService(repo)
	resp, err := svc.Update(ctx, p.ID, UpdateProjectRequest{Name: &name, Status: &status, County: &county})

	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.Name)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "Maricopa", resp.County)
	assert.Greater(t, resp.Version, 1)
	repo.AssertExpectations(t)
}

func TestProjectService_SaveBoundary(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces boundary and acreage", func(t *testing.T) {
		p := newTestProject(t, "Boundary Test")
		repo := new(MockProjectRepository)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		repo.On("ReplaceBoundary", ctx, p, mock.AnythingOfType("*project.Boundary")).Return(nil)

		svc := NewProjectService(repo)
		resp, err := svc.SaveBoundary(ctx, p.ID, SaveBoundaryRequest{Source: "drawn", Geometry: squarePolygon(t)})

		require.NoError(t, err)
		assert.True(t, resp.Acres.IsPositive())
		assert.True(t, p.TotalAcres.Equal(resp.Acres))
		assert.False(t, p.Boundary.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("rejects open ring without touching storage", func(t *testing.T) {
		p := newTestProject(t, "Open Ring")
		open, err := gis.NewPolygon([][]gis.Position{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})
		require.NoError(t, err)

		repo := new(MockProjectRepository)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)

		svc := NewProjectService(repo)
		_, err = svc.SaveBoundary(ctx, p.ID, SaveBoundaryRequest{Source: "drawn", Geometry: open})

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		repo.AssertNotCalled(t, "ReplaceBoundary", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates transaction failure", func(t *testing.T) {
		p := newTestProject(t, "Rollback")
		repo := new(MockProjectRepository)
		repo.On("FindByID", ctx, p.ID).Return(p, nil)
		repo.On("ReplaceBoundary", ctx, p, mock.Anything).Return(errors.New("insert failed"))

		svc := NewProjectService(repo)
		_, err := svc.SaveBoundary(ctx, p.ID, SaveBoundaryRequest{Source: "gis", Geometry: squarePolygon(t)})

		assert.EqualError(t, err, "insert failed")
	})
}

func TestProjectService_GetBoundaries_MissingProject(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(MockProjectRepository)
	repo.On("Exists", ctx, id).Return(false, nil)

	_, err := NewProjectService(repo).GetBoundaries(ctx, id)

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProjectRepository)
	projects := []project.Project{*newTestProject(t, "A"), *newTestProject(t, "B")}

	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 1 && f.Filters["status"] == "active" && f.OrderBy == "name"
	})).Return(projects[1:], nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(2), nil)

	page, err := NewProjectService(repo).List(ctx, ProjectListFilter{
		Status: "active", Page: 2, PageSize: 1, OrderBy: "name", OrderDir: "asc",
	})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B", page.Items[0].Name)
	assert.Equal(t, 2, page.TotalPages)
}

// dashboard fakes

type fakeCategoryRepo struct {
	budget.CategoryRepository
	count int64
}

func (f fakeCategoryRepo) CountByProject(context.Context, uuid.UUID) (int64, error) {
	return f.count, nil
}

type fakeItemRepo struct {
	budget.ItemRepository
	totals []budget.CategoryTotal
}

func (f fakeItemRepo) TotalsByCategory(context.Context, uuid.UUID) ([]budget.CategoryTotal, error) {
	return f.totals, nil
}

type fakeParcelRepo struct {
	planning.ParcelRepository
	totals []planning.LandUseTotal
}

func (f fakeParcelRepo) SummarizeByLandUse(context.Context, uuid.UUID) ([]planning.LandUseTotal, error) {
	return f.totals, nil
}

type fakeFacilityRepo struct {
	finance.DebtFacilityRepository
	facilities []finance.DebtFacility
	total      decimal.Decimal
}

func (f fakeFacilityRepo) FindByProject(context.Context, uuid.UUID) ([]finance.DebtFacility, error) {
	return f.facilities, nil
}

func (f fakeFacilityRepo) TotalCommitment(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeInventoryRepo struct {
	inventory.ItemRepository
	totals []inventory.StatusTotal
}

func (f fakeInventoryRepo) TotalsByStatus(context.Context, uuid.UUID) ([]inventory.StatusTotal, error) {
	return f.totals, nil
}

type fakeScenarioRepo struct {
	valuation.ScenarioRepository
	latest *valuation.Scenario
}

func (f fakeScenarioRepo) FindLatest(context.Context, uuid.UUID) (*valuation.Scenario, error) {
	if f.latest == nil {
		return nil, shared.ErrNotFound
	}
	return f.latest, nil
}

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	p := newTestProject(t, "Dashboard")
	repo := new(MockProjectRepository)
	repo.On("FindByID", ctx, p.ID).Return(p, nil)

	deps := DashboardDeps{
		Projects:   repo,
		Categories: fakeCategoryRepo{count: 5},
		Items: fakeItemRepo{totals: []budget.CategoryTotal{
			{CategoryID: uuid.New(), Total: decimal.NewFromInt(1000), ItemCount: 2},
			{CategoryID: uuid.New(), Total: decimal.RequireFromString("250.50"), ItemCount: 1},
		}},
		Parcels: fakeParcelRepo{totals: []planning.LandUseTotal{
			{LandUseCode: "SFD", ParcelCount: 3, Acres: decimal.NewFromInt(12), Units: 40},
			{LandUseCode: "OS", ParcelCount: 1, Acres: decimal.RequireFromString("4.5")},
		}},
		Facilities: fakeFacilityRepo{facilities: make([]finance.DebtFacility, 2), total: decimal.NewFromInt(5_000_000)},
		Inventory: fakeInventoryRepo{totals: []inventory.StatusTotal{
			{Status: inventory.StatusAvailable, Count: 3, ListValue: decimal.NewFromInt(900), SaleValue: decimal.Zero},
			{Status: inventory.StatusSold, Count: 1, ListValue: decimal.NewFromInt(300), SaleValue: decimal.NewFromInt(310)},
		}},
		Scenarios: fakeScenarioRepo{},
	}

	resp, err := NewDashboardService(deps).Get(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, "1250.5", resp.Budget.Total.String())
	assert.Equal(t, int64(3), resp.Budget.Items)
	assert.Equal(t, int64(5), resp.Budget.Categories)
	assert.Equal(t, int64(4), resp.Land.Parcels)
	assert.Equal(t, "16.5", resp.Land.Acres.String())
	assert.Equal(t, int64(40), resp.Land.Units)
	assert.Equal(t, 2, resp.Debt.Facilities)
	assert.Equal(t, int64(4), resp.Inventory.TotalUnits)
	assert.Equal(t, int64(0), resp.Inventory.ByStatus["reserved"])
	assert.Equal(t, "0.25", resp.Inventory.Absorption.String())
	assert.Nil(t, resp.Valuation)
}

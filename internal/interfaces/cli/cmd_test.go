package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	budgetapp "github.com/landscape/backend/internal/application/budget"
	gisapp "github.com/landscape/backend/internal/application/gis"
	landuseapp "github.com/landscape/backend/internal/application/landuse"
	"github.com/landscape/backend/internal/domain/gis"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLandUse struct {
	mock.Mock
}

func (m *MockLandUse) Analyze(ctx context.Context, projectID *uuid.UUID) (*landuseapp.AnalysisResponse, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*landuseapp.AnalysisResponse), args.Error(1)
}

type MockTemplates struct {
	mock.Mock
}

func (m *MockTemplates) ImportTemplate(ctx context.Context, f *budgetapp.TemplateFile) (*budgetapp.TemplateResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budgetapp.TemplateResponse), args.Error(1)
}

func (m *MockTemplates) ApplyTemplate(ctx context.Context, projectID uuid.UUID, req budgetapp.ApplyTemplateRequest) (*budgetapp.ApplyTemplateResponse, error) {
	args := m.Called(ctx, projectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budgetapp.ApplyTemplateResponse), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, projectID uuid.UUID, format string) (*budgetapp.ExportResult, error) {
	args := m.Called(ctx, projectID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budgetapp.ExportResult), args.Error(1)
}

type MockParcels struct {
	mock.Mock
}

func (m *MockParcels) FetchParcels(ctx context.Context, apns []string) (*gisapp.LookupResponse, error) {
	args := m.Called(ctx, apns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gisapp.LookupResponse), args.Error(1)
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLandUseAnalyze(t *testing.T) {
	lu := new(MockLandUse)
	lu.On("Analyze", mock.Anything, (*uuid.UUID)(nil)).Return(&landuseapp.AnalysisResponse{
		Matched: []landuseapp.MatchedCodeResponse{{Code: "SFD", ParcelCount: 12}},
		Unmatched: []landuseapp.UnmatchedCodeResponse{{
			Code:        "SF-D",
			ParcelCount: 3,
			Suggestion:  &landuseapp.TaxonomyResponse{Code: "SFD", Name: "Single Family Detached"},
		}},
		TotalParcels:     15,
		UnmatchedParcels: 3,
	}, nil)

	out, err := run(t, &App{LandUse: lu}, "landuse", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "SFD")
	assert.Contains(t, out, "exact")
	assert.Contains(t, out, "SF-D")
	assert.Contains(t, out, "Single Family Detached")
	assert.Contains(t, out, "15 parcels, 3 without a taxonomy code")
	lu.AssertExpectations(t)
}

func TestLandUseAnalyze_InvalidProject(t *testing.T) {
	_, err := run(t, &App{LandUse: new(MockLandUse)}, "landuse", "analyze", "--project", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --project")
}

func TestBudgetImportTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Master Planned Community
project_type: master_planned
categories:
  - code: "100"
    name: Land Acquisition
    children:
      - code: "110"
        name: Purchase Price
`), 0o600))

	tm := new(MockTemplates)
	tm.On("ImportTemplate", mock.Anything, mock.MatchedBy(func(f *budgetapp.TemplateFile) bool {
		return f.Name == "Master Planned Community" && len(f.Categories) == 1 && len(f.Categories[0].Children) == 1
	})).Return(&budgetapp.TemplateResponse{
		ID:         uuid.New(),
		Name:       "Master Planned Community",
		Categories: []budgetapp.CategoryTreeNode{{Code: "100"}},
	}, nil)

	out, err := run(t, &App{Templates: tm}, "budget", "import-template", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported template "Master Planned Community"`)
	tm.AssertExpectations(t)
}

func TestBudgetImportTemplate_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: X\ncolour: red\ncategories: []\n"), 0o600))

	tm := new(MockTemplates)
	_, err := run(t, &App{Templates: tm}, "budget", "import-template", path)
	require.Error(t, err)
	tm.AssertNotCalled(t, "ImportTemplate", mock.Anything, mock.Anything)
}

func TestBudgetApplyTemplate(t *testing.T) {
	projectID, templateID := uuid.New(), uuid.New()
	tm := new(MockTemplates)
	tm.On("ApplyTemplate", mock.Anything, projectID, budgetapp.ApplyTemplateRequest{
		TemplateID:        templateID,
		OverwriteExisting: true,
	}).Return(&budgetapp.ApplyTemplateResponse{CategoriesCreated: 8, CategoriesRemoved: 2}, nil)

	out, err := run(t, &App{Templates: tm}, "budget", "apply-template",
		"--project", projectID.String(), "--template", templateID.String(), "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 8 categories, removed 2")
	tm.AssertExpectations(t)
}

func TestBudgetApplyTemplate_Conflict(t *testing.T) {
	projectID, templateID := uuid.New(), uuid.New()
	tm := new(MockTemplates)
	tm.On("ApplyTemplate", mock.Anything, projectID, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeConflict, "Project already has budget categories"))

	_, err := run(t, &App{Templates: tm}, "budget", "apply-template",
		"--project", projectID.String(), "--template", templateID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has budget categories")
}

func TestBudgetExport(t *testing.T) {
	projectID := uuid.New()
	ex := new(MockExporter)
	ex.On("Export", mock.Anything, projectID, "pdf").Return(&budgetapp.ExportResult{
		FileName: "x.pdf",
		Data:     []byte("%PDF-1.7"),
	}, nil)

	target := filepath.Join(t.TempDir(), "budget.pdf")
	out, err := run(t, &App{Budgets: ex}, "budget", "export",
		"--project", projectID.String(), "--format", "pdf", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestGISFetch_SplitsCommaLists(t *testing.T) {
	gp := new(MockParcels)
	gp.On("FetchParcels", mock.Anything, []string{"101-01-001", "101-01-002", "101-01-003"}).
		Return(&gisapp.LookupResponse{
			Requested: 3,
			Parcels:   []gis.ParcelFeature{{APN: "101-01-001", Acres: 1.25, LandUseCode: "0131"}},
			NotFound:  []string{"101-01-002", "101-01-003"},
		}, nil)

	out, err := run(t, &App{Parcels: gp}, "gis", "fetch", "101-01-001, 101-01-002", "101-01-003")
	require.NoError(t, err)
	assert.Contains(t, out, "101-01-001")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "not found: 101-01-002, 101-01-003")
	gp.AssertExpectations(t)
}

func TestGISFetch_JSON(t *testing.T) {
	gp := new(MockParcels)
	gp.On("FetchParcels", mock.Anything, []string{"101-01-001"}).
		Return(&gisapp.LookupResponse{Requested: 1, Parcels: []gis.ParcelFeature{}, NotFound: []string{"101-01-001"}}, nil)

	out, err := run(t, &App{Parcels: gp}, "--json", "gis", "fetch", "101-01-001")
	require.NoError(t, err)
	assert.Contains(t, out, `"requested": 1`)
	assert.Contains(t, out, `"not_found": [`)
}

package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	budgetapp "github.com/landscape/backend/internal/application/budget"
	"github.com/landscape/backend/internal/domain/budget"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/landscape/backend/internal/infrastructure/cache"
	"github.com/landscape/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTemplateRepository is a mock implementation of budget.TemplateRepository
type MockTemplateRepository struct {
	budget.TemplateRepository
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindCategories(ctx context.Context, templateID uuid.UUID) ([]budget.TemplateCategory, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]budget.TemplateCategory), args.Error(1)
}

// MockCategoryRepository is a mock implementation of budget.CategoryRepository
type MockCategoryRepository struct {
	budget.CategoryRepository
	mock.Mock
}

func (m *MockCategoryRepository) ApplyCopy(ctx context.Context, projectID uuid.UUID, categories []*budget.Category, overwrite bool) (int64, error) {
	args := m.Called(ctx, projectID, categories, overwrite)
	return args.Get(0).(int64), args.Error(1)
}

type applyFixture struct {
	projectID uuid.UUID
	template  *budget.Template
	projects  *MockProjectRepository
	templates *MockTemplateRepository
	cats      *MockCategoryRepository
	router    *gin.Engine
}

func newApplyFixture(t *testing.T) *applyFixture {
	t.Helper()
	tmpl, err := budget.NewTemplate("Standard Land Budget", "", "")
	require.NoError(t, err)
	root, err := budget.NewTemplateCategory(tmpl.ID, nil, "100", "Land", 10)
	require.NoError(t, err)
	child, err := budget.NewTemplateCategory(tmpl.ID, root, "110", "Purchase Price", 10)
	require.NoError(t, err)

	f := &applyFixture{
		projectID: uuid.New(),
		template:  tmpl,
		projects:  new(MockProjectRepository),
		templates: new(MockTemplateRepository),
		cats:      new(MockCategoryRepository),
	}
	f.projects.On("Exists", mock.Anything, f.projectID).Return(true, nil)
	f.templates.On("FindByID", mock.Anything, tmpl.ID).Return(tmpl, nil)
	f.templates.On("FindCategories", mock.Anything, tmpl.ID).Return([]budget.TemplateCategory{*child, *root}, nil)

	svc := budgetapp.NewTemplateService(budgetapp.TemplateServiceDeps{
		Projects:   f.projects,
		Templates:  f.templates,
		Categories: f.cats,
		Locker:     cache.NewMemoryLocker(),
	})
	h := NewBudgetHandler(svc, nil)
	f.router = newTestRouter()
	f.router.POST("/projects/:id/budget/apply-template", h.ApplyTemplate)
	return f
}

func (f *applyFixture) post(body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+f.projectID.String()+"/budget/apply-template", bytes.NewBufferString(body))
	f.router.ServeHTTP(w, req)
	return w
}

func TestBudgetHandler_ApplyTemplate(t *testing.T) {
	t.Run("copies the template", func(t *testing.T) {
		f := newApplyFixture(t)
		f.cats.On("ApplyCopy", mock.Anything, f.projectID, mock.MatchedBy(func(c []*budget.Category) bool {
			return len(c) == 2 && c[0].Code == "100" && c[1].ParentID != nil && *c[1].ParentID == c[0].ID
		}), false).Return(int64(0), nil)

		w := f.post(`{"template_id":"` + f.template.ID.String() + `"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"categories_created":2`)
		f.cats.AssertExpectations(t)
	})

	t.Run("existing categories without overwrite is a conflict", func(t *testing.T) {
		f := newApplyFixture(t)
		f.cats.On("ApplyCopy", mock.Anything, f.projectID, mock.Anything, false).
			Return(int64(0), shared.NewDomainError(shared.CodeConflict, "Project already has budget categories"))

		w := f.post(`{"template_id":"` + f.template.ID.String() + `","overwrite_existing":false}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeConflict, decodeError(t, w).Error.Code)
	})

	t.Run("overwrite reports removed rows", func(t *testing.T) {
		f := newApplyFixture(t)
		f.cats.On("ApplyCopy", mock.Anything, f.projectID, mock.Anything, true).Return(int64(5), nil)

		w := f.post(`{"template_id":"` + f.template.ID.String() + `","overwrite_existing":true}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"categories_removed":5`)
	})

	t.Run("unknown template", func(t *testing.T) {
		f := newApplyFixture(t)
		missing := uuid.New()
		f.templates.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		w := f.post(`{"template_id":"` + missing.String() + `"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.cats.AssertNotCalled(t, "ApplyCopy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("template id is required", func(t *testing.T) {
		f := newApplyFixture(t)

		w := f.post(`{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeError(t, w).Error.Code)
	})
}

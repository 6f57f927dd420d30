package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/contact"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProjects struct {
	project.ProjectRepository
	known map[uuid.UUID]bool
}

func (s stubProjects) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.known[id], nil
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contact.Contact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contact.Contact), args.Error(1)
}

func (m *MockContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, c *contact.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	repo := new(MockContactRepository)
	repo.On("Save", ctx, mock.AnythingOfType("*contact.Contact")).Return(nil)
	svc := NewContactService(repo, stubProjects{known: map[uuid.UUID]bool{projectID: true}}, nil)

	resp, err := svc.Create(ctx, ContactRequest{
		ProjectID: &projectID,
		Name:      "Dana Ortiz",
		Role:      "lender",
		Phone:     "602.262.6011",
	})

	require.NoError(t, err)
	assert.Equal(t, "+16022626011", resp.Phone)
	assert.Equal(t, "lender", resp.Role)

	unknown := uuid.New()
	_, err = svc.Create(ctx, ContactRequest{ProjectID: &unknown, Name: "X"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestContactService_List_Filters(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	repo := new(MockContactRepository)
	matches := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["project_id"] == projectID && f.Filters["role"] == "broker" && f.OrderBy == "name"
	})
	repo.On("FindAll", ctx, matches).Return([]contact.Contact{}, nil)
	repo.On("Count", ctx, matches).Return(int64(0), nil)

	page, err := NewContactService(repo, stubProjects{}, nil).List(ctx, ContactListFilter{ProjectID: &projectID, Role: "broker"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	repo.AssertExpectations(t)
}

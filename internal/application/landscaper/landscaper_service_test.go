package landscaper

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubProjects struct {
	project.ProjectRepository
	known uuid.UUID
}

func (s stubProjects) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return id == s.known, nil
}

// MockClient is a mock Landscaper client
type MockClient struct {
	landscaper.Client
	mock.Mock
}

func (m *MockClient) SendMessage(ctx context.Context, projectID uuid.UUID, threadID, content string) (*landscaper.Reply, error) {
	args := m.Called(ctx, projectID, threadID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*landscaper.Reply), args.Error(1)
}

func (m *MockClient) ListMessages(ctx context.Context, projectID uuid.UUID, threadID string) ([]landscaper.Message, error) {
	args := m.Called(ctx, projectID, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]landscaper.Message), args.Error(1)
}

func (m *MockClient) RejectProposal(ctx context.Context, proposalID, reason string) (*landscaper.Proposal, error) {
	args := m.Called(ctx, proposalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*landscaper.Proposal), args.Error(1)
}

func TestLandscaperService_SendMessage(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("forwards trimmed message", func(t *testing.T) {
		client := new(MockClient)
		client.On("SendMessage", ctx, projectID, "t-1", "How many lots in phase 2?").
			Return(&landscaper.Reply{ThreadID: "t-1", Message: landscaper.Message{Role: "assistant", Content: "142"}}, nil)
		svc := NewLandscaperService(stubProjects{known: projectID}, client, nil)

		reply, err := svc.SendMessage(ctx, projectID, SendMessageRequest{ThreadID: " t-1 ", Message: "  How many lots in phase 2?\n"})

		require.NoError(t, err)
		assert.Equal(t, "142", reply.Message.Content)
		assert.NotNil(t, reply.Proposals)
		client.AssertExpectations(t)
	})

	t.Run("unknown project", func(t *testing.T) {
		client := new(MockClient)
		svc := NewLandscaperService(stubProjects{known: projectID}, client, nil)

		_, err := svc.SendMessage(ctx, uuid.New(), SendMessageRequest{Message: "hi"})

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upstream unavailable passes through", func(t *testing.T) {
		client := new(MockClient)
		client.On("SendMessage", ctx, projectID, "", "hi").
			Return(nil, shared.ErrUpstreamUnavailable.WithDetails("landscaper service timed out"))
		svc := NewLandscaperService(stubProjects{known: projectID}, client, nil)

		_, err := svc.SendMessage(ctx, projectID, SendMessageRequest{Message: "hi"})

		assert.True(t, errors.Is(err, shared.ErrUpstreamUnavailable))
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewLandscaperService(stubProjects{known: projectID}, nil, nil)

		_, err := svc.SendMessage(ctx, projectID, SendMessageRequest{Message: "hi"})

		assert.True(t, errors.Is(err, shared.ErrUpstreamUnavailable))
	})
}

func TestLandscaperService_ListMessages_DefaultsThread(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	client := new(MockClient)
	client.On("ListMessages", ctx, projectID, "").Return([]landscaper.Message{
		{ID: "m1", ThreadID: "t-9", Role: "user", Content: "hello"},
	}, nil)
	svc := NewLandscaperService(stubProjects{known: projectID}, client, nil)

	resp, err := svc.ListMessages(ctx, projectID, "")

	require.NoError(t, err)
	assert.Equal(t, "t-9", resp.ThreadID)
	assert.Len(t, resp.Messages, 1)
}

func TestLandscaperService_RejectProposal(t *testing.T) {
	ctx := context.Background()
	client := new(MockClient)
	client.On("RejectProposal", ctx, "p-1", "wrong phase").
		Return(&landscaper.Proposal{ID: "p-1", Status: landscaper.ProposalRejected}, nil)
	svc := NewLandscaperService(stubProjects{}, client, nil)

	p, err := svc.RejectProposal(ctx, "p-1", RejectProposalRequest{Reason: " wrong phase "})

	require.NoError(t, err)
	assert.Equal(t, landscaper.ProposalRejected, p.Status)
}

// Package landscaper forwards project conversations and proposal reviews to
// the Landscaper assistant service.
package landscaper

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/landscape/backend/internal/domain/landscaper"
	"github.com/landscape/backend/internal/domain/project"
	"github.com/landscape/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LandscaperService proxies assistant calls for known projects
type LandscaperService struct {
	projectRepo project.ProjectRepository
	client      landscaper.Client
	logger      *zap.Logger
}

// NewLandscaperService creates a new LandscaperService. client may be nil
// when the assistant is not configured; every call then fails as upstream
// unavailable.
func NewLandscaperService(projectRepo project.ProjectRepository, client landscaper.Client, logger *zap.Logger) *LandscaperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LandscaperService{projectRepo: projectRepo, client: client, logger: logger}
}

// SendMessage posts a message to a project thread and returns the reply
func (s *LandscaperService) SendMessage(ctx context.Context, projectID uuid.UUID, req SendMessageRequest) (*landscaper.Reply, error) {
	if err := s.ready(ctx, projectID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, shared.NewInvalidInputError("message is required")
	}
	reply, err := s.client.SendMessage(ctx, projectID, strings.TrimSpace(req.ThreadID), content)
	if err != nil {
		return nil, err
	}
	if reply.Proposals == nil {
		reply.Proposals = []landscaper.Proposal{}
	}
	if len(reply.Proposals) > 0 {
		s.logger.Info("Assistant proposed changes",
			zap.String("project_id", projectID.String()),
			zap.String("thread_id", reply.ThreadID),
			zap.Int("proposals", len(reply.Proposals)),
		)
	}
	return reply, nil
}

// ListMessages returns a thread's messages, or the latest thread's when threadID is empty
func (s *LandscaperService) ListMessages(ctx context.Context, projectID uuid.UUID, threadID string) (*MessagesResponse, error) {
	if err := s.ready(ctx, projectID); err != nil {
		return nil, err
	}
	threadID = strings.TrimSpace(threadID)
	messages, err := s.client.ListMessages(ctx, projectID, threadID)
	if err != nil {
		return nil, err
	}
	if threadID == "" && len(messages) > 0 {
		threadID = messages[0].ThreadID
	}
	return &MessagesResponse{ThreadID: threadID, Messages: messages}, nil
}

// ListThreads returns the project's threads
func (s *LandscaperService) ListThreads(ctx context.Context, projectID uuid.UUID) ([]landscaper.Thread, error) {
	if err := s.ready(ctx, projectID); err != nil {
		return nil, err
	}
	return s.client.ListThreads(ctx, projectID)
}

// ListProposals returns the project's proposals
func (s *LandscaperService) ListProposals(ctx context.Context, projectID uuid.UUID) ([]landscaper.Proposal, error) {
	if err := s.ready(ctx, projectID); err != nil {
		return nil, err
	}
	return s.client.ListProposals(ctx, projectID)
}

// ApplyProposal applies a pending proposal
func (s *LandscaperService) ApplyProposal(ctx context.Context, proposalID string) (*landscaper.Proposal, error) {
	if s.client == nil {
		return nil, notConfigured()
	}
	p, err := s.client.ApplyProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Applied assistant proposal", zap.String("proposal_id", p.ID), zap.String("kind", p.Kind))
	return p, nil
}

// RejectProposal rejects a pending proposal
func (s *LandscaperService) RejectProposal(ctx context.Context, proposalID string, req RejectProposalRequest) (*landscaper.Proposal, error) {
	if s.client == nil {
		return nil, notConfigured()
	}
	return s.client.RejectProposal(ctx, proposalID, strings.TrimSpace(req.Reason))
}

func (s *LandscaperService) ready(ctx context.Context, projectID uuid.UUID) error {
	if s.client == nil {
		return notConfigured()
	}
	ok, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNotFoundError("project")
	}
	return nil
}

func notConfigured() error {
	return shared.NewDomainError(shared.CodeUpstreamUnavailable, "Landscaper service is not configured")
}

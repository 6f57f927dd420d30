// Package landscaper describes the contract of the Landscaper assistant
// service. Conversations, document extraction and mutation proposals are
// owned by that service; this package only names the shapes exchanged with it.
package landscaper

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is one turn of a Landscaper conversation
type Message struct {
	ID        string         `json:"id"`
	ThreadID  string         `json:"thread_id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Thread groups messages of one conversation
type Thread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Reply is what the assistant returns for a sent message
type Reply struct {
	ThreadID  string     `json:"thread_id"`
	Message   Message    `json:"message"`
	Proposals []Proposal `json:"proposals,omitempty"`
}

// ProposalStatus is the review state of a proposal
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApplied  ProposalStatus = "applied"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a data change suggested by the assistant awaiting review
type Proposal struct {
	ID          string         `json:"id"`
	ProjectID   uuid.UUID      `json:"project_id"`
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Status      ProposalStatus `json:"status"`
	Payload     map[string]any `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ExtractionRequest asks the assistant to read a stored document
type ExtractionRequest struct {
	DocumentID    uuid.UUID `json:"document_id"`
	ProjectID     uuid.UUID `json:"project_id"`
	FileName      string    `json:"file_name"`
	ContentType   string    `json:"content_type"`
	DownloadURL   string    `json:"download_url"`
	DocType       string    `json:"doc_type,omitempty"`
	AttributeKeys []string  `json:"attribute_keys,omitempty"`
}

// ExtractionResult carries the attribute values read from a document
type ExtractionResult struct {
	Attributes map[string]any     `json:"attributes"`
	Confidence map[string]float64 `json:"confidence,omitempty"`
	Summary    string             `json:"summary,omitempty"`
}

// Client talks to the Landscaper service. Implementations report an
// unreachable or failing service as shared.ErrUpstreamUnavailable.
type Client interface {
	SendMessage(ctx context.Context, projectID uuid.UUID, threadID, content string) (*Reply, error)
	ListMessages(ctx context.Context, projectID uuid.UUID, threadID string) ([]Message, error)
	ListThreads(ctx context.Context, projectID uuid.UUID) ([]Thread, error)
	ExtractDocument(ctx context.Context, req ExtractionRequest) (*ExtractionResult, error)
	ListProposals(ctx context.Context, projectID uuid.UUID) ([]Proposal, error)
	ApplyProposal(ctx context.Context, proposalID string) (*Proposal, error)
	RejectProposal(ctx context.Context, proposalID, reason string) (*Proposal, error)
}

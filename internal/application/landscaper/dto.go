package landscaper

import "github.com/landscape/backend/internal/domain/landscaper"

// SendMessageRequest represents a chat message sent to the assistant
type SendMessageRequest struct {
	ThreadID string `json:"thread_id,omitempty" binding:"omitempty,max=100"`
	Message  string `json:"message" binding:"required,min=1,max=20000"`
}

// RejectProposalRequest carries the reviewer's reason for a rejection
type RejectProposalRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=2000"`
}

// MessagesResponse lists the messages of one thread
type MessagesResponse struct {
	ThreadID string               `json:"thread_id,omitempty"`
	Messages []landscaper.Message `json:"messages"`
}

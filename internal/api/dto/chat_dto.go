package dto

import (
	"time"

	"github.com/spec-kit/assistant-service/internal/domain"
)

// ChatMessageRequest is one user turn.
type ChatMessageRequest struct {
	Text string `json:"text"`
}

// EscalationRequest submits the escalation form.
type EscalationRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// ChatMessageResponse is one transcript entry.
type ChatMessageResponse struct {
	ID        int                  `json:"id"`
	Text      string               `json:"text"`
	Sender    domain.MessageSender `json:"sender"`
	Timestamp time.Time            `json:"timestamp"`
}

// ConversationResponse is the transcript plus the state machine position.
type ConversationResponse struct {
	Mode             domain.ConversationMode `json:"mode"`
	DraftSubject     string                  `json:"draft_subject"`
	DraftDescription string                  `json:"draft_description"`
	Messages         []ChatMessageResponse   `json:"messages"`
}

// ChatTurnResponse is returned from a single message exchange.
type ChatTurnResponse struct {
	Reply ChatMessageResponse     `json:"reply"`
	Mode  domain.ConversationMode `json:"mode"`
}

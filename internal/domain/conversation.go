package domain

import "time"

// MessageSender identifies who produced a chat message.
type MessageSender string

const (
	SenderUser      MessageSender = "user"
	SenderAssistant MessageSender = "assistant"
)

// ChatMessage is a single transcript entry. Ids are monotonic within a
// conversation and messages are immutable once appended.
type ChatMessage struct {
	ID        int           `json:"id"`
	Text      string        `json:"text"`
	Sender    MessageSender `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
}

// ConversationMode tracks whether the session is chatting normally or
// collecting an escalation form.
type ConversationMode string

const (
	ModeChatting   ConversationMode = "chatting"
	ModeEscalating ConversationMode = "escalating"
)

// Conversation holds one user's assistant session: transcript plus the
// escalation state machine. Drafts are only meaningful while escalating and
// are cleared on the way back to chatting. PendingTicketID carries a ticket
// that was persisted but whose submit did not complete, so a retry reuses it
// instead of creating a duplicate.
type Conversation struct {
	UserID           string           `json:"user_id"`
	Mode             ConversationMode `json:"mode"`
	DraftSubject     string           `json:"draft_subject"`
	DraftDescription string           `json:"draft_description"`
	PendingTicketID  string           `json:"pending_ticket_id,omitempty"`
	Messages         []ChatMessage    `json:"messages"`
	NextMessageID    int              `json:"next_message_id"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewConversation initializes a session in chatting mode.
func NewConversation(userID string) *Conversation {
	return &Conversation{
		UserID:        userID,
		Mode:          ModeChatting,
		Messages:      []ChatMessage{},
		NextMessageID: 1,
		UpdatedAt:     time.Now(),
	}
}

// Append adds a message to the transcript and returns it.
func (c *Conversation) Append(sender MessageSender, text string) ChatMessage {
	msg := ChatMessage{
		ID:        c.NextMessageID,
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
	c.NextMessageID++
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.Timestamp
	return msg
}

// ResetEscalation clears the escalation form and returns to chatting.
func (c *Conversation) ResetEscalation() {
	c.Mode = ModeChatting
	c.DraftSubject = ""
	c.DraftDescription = ""
	c.PendingTicketID = ""
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/assistant-service/internal/assistant"
	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/events"
	"github.com/spec-kit/assistant-service/internal/repository"
	apperrors "github.com/spec-kit/assistant-service/pkg/util/errorutil"
)

// ConversationService runs the assistant: one chat turn at a time, plus the
// escalation workflow that turns a conversation into a support ticket.
type ConversationService struct {
	sessions      repository.SessionStore
	tickets       repository.TicketRepository
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	replyDelay    time.Duration

	// one mutex per user so overlapping submits for the same session
	// serialize; different sessions never contend.
	locks sync.Map
}

// ConversationDependencies bundles collaborators for the service.
type ConversationDependencies struct {
	Sessions      repository.SessionStore
	Tickets       repository.TicketRepository
	Notifications repository.NotificationRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	ReplyDelay    time.Duration
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		sessions:      deps.Sessions,
		tickets:       deps.Tickets,
		notifications: deps.Notifications,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		replyDelay:    deps.ReplyDelay,
	}
}

func (s *ConversationService) lockFor(userID string) *sync.Mutex {
	val, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return val.(*sync.Mutex)
}

// Transcript returns the user's conversation, starting one with a greeting
// if none exists yet.
func (s *ConversationService) Transcript(ctx context.Context, user *domain.User) (*domain.Conversation, error) {
	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()
	return s.loadOrStart(ctx, user)
}

// HandleMessage processes one chat turn: append the user's message, classify
// it, apply any escalation transition, append the assistant's reply.
func (s *ConversationService) HandleMessage(ctx context.Context, user *domain.User, text string) (*domain.Conversation, domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ChatMessage{}, apperrors.NewValidationError("message text required", nil)
	}

	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()

	conv, err := s.loadOrStart(ctx, user)
	if err != nil {
		return nil, domain.ChatMessage{}, err
	}

	if conv.Mode == domain.ModeEscalating {
		// The portal disables the chat box while the escalation form is
		// open; reject out-of-band input rather than guessing intent.
		return nil, domain.ChatMessage{}, apperrors.NewValidationError(
			"an escalation is in progress; submit the form or cancel it first", nil)
	}

	conv.Append(domain.SenderUser, text)

	result := assistant.Classify(text)
	if result.Escalate {
		conv.Mode = domain.ModeEscalating
	}

	if s.replyDelay > 0 {
		// Simulated typing. Cosmetic only; transcript order does not
		// depend on it.
		time.Sleep(s.replyDelay)
	}
	reply := conv.Append(domain.SenderAssistant, result.Text)

	if err := s.sessions.Save(ctx, conv); err != nil {
		return nil, domain.ChatMessage{}, apperrors.NewUnavailable("could not save conversation", err)
	}
	return conv, reply, nil
}

// SubmitEscalation completes the escalation form. On success exactly one
// ticket and one notification are persisted and the conversation returns to
// chatting. On persistence failure the session stays in escalation mode with
// the drafts intact, and resubmitting never files a second ticket.
func (s *ConversationService) SubmitEscalation(ctx context.Context, user *domain.User, subject, description string) (*domain.SupportTicket, *domain.Conversation, error) {
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)

	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()

	conv, err := s.loadOrStart(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	if conv.Mode != domain.ModeEscalating {
		return nil, nil, apperrors.NewValidationError("no escalation in progress", nil)
	}

	if subject == "" || description == "" {
		return nil, conv, apperrors.NewValidationError("please provide both subject and description", nil)
	}

	// Persist the drafts before any store write so a transient failure
	// never costs the user their input.
	conv.DraftSubject = subject
	conv.DraftDescription = description
	if err := s.sessions.Save(ctx, conv); err != nil {
		return nil, nil, apperrors.NewUnavailable("could not save conversation", err)
	}

	ticket, err := s.ensureTicket(ctx, user, conv, subject, description)
	if err != nil {
		return nil, conv, err
	}

	note := &domain.UserNotification{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Type:    domain.NotificationTicketCreated,
		Title:   "Support ticket created",
		Message: fmt.Sprintf("Your support ticket %s has been created. The admin team will follow up shortly.", ticket.ID),
		Date:    time.Now(),
		Read:    false,
	}
	if err := s.notifications.Create(ctx, note); err != nil {
		s.logger.Warn("notification append failed; escalation stays open",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil, conv, apperrors.NewUnavailable("could not record your notification; please resubmit", err)
	}

	conv.Append(domain.SenderAssistant,
		fmt.Sprintf("Done! Your support ticket %s has been created. You can track it under My Tickets.", ticket.ID))
	conv.ResetEscalation()
	if err := s.sessions.Save(ctx, conv); err != nil {
		return nil, conv, apperrors.NewUnavailable("could not save conversation", err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventTicketCreated,
		UserID: user.ID,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Role:     user.Role,
			Subject:  ticket.Subject,
		},
	})
	s.publish(ctx, events.Event{
		Type:   events.EventNotificationCreated,
		UserID: user.ID,
		Payload: events.NotificationCreatedPayload{
			NotificationID: note.ID,
			Type:           note.Type,
			Title:          note.Title,
		},
	})

	return ticket, conv, nil
}

// ensureTicket files the ticket for this submit, reusing one parked on the
// session by an earlier partially-failed attempt.
func (s *ConversationService) ensureTicket(ctx context.Context, user *domain.User, conv *domain.Conversation, subject, description string) (*domain.SupportTicket, error) {
	if conv.PendingTicketID != "" {
		ticket, err := s.tickets.GetByID(ctx, conv.PendingTicketID)
		if err == nil {
			return ticket, nil
		}
		s.logger.Warn("pending ticket lookup failed; filing a new one",
			zap.String("ticket_id", conv.PendingTicketID), zap.Error(err))
	}

	ticket := &domain.SupportTicket{
		ID:          GenerateTicketID(),
		RequesterID: user.ID,
		User:        user.Name,
		Role:        user.Role,
		Subject:     subject,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Escalated:   false,
		Resolution:  "",
		CreatedAt:   time.Now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewUnavailable("could not file your ticket; please resubmit", err)
	}

	conv.PendingTicketID = ticket.ID
	if err := s.sessions.Save(ctx, conv); err != nil {
		// The ticket exists; losing the pending marker only risks a
		// duplicate if the notification write below also fails.
		s.logger.Warn("could not park pending ticket on session",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
	return ticket, nil
}

// CancelEscalation abandons the escalation form, clearing both drafts.
func (s *ConversationService) CancelEscalation(ctx context.Context, user *domain.User) (*domain.Conversation, error) {
	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()

	conv, err := s.loadOrStart(ctx, user)
	if err != nil {
		return nil, err
	}
	if conv.Mode != domain.ModeEscalating {
		return nil, apperrors.NewValidationError("no escalation in progress", nil)
	}

	conv.ResetEscalation()
	conv.Append(domain.SenderAssistant, "No problem, I've cancelled the ticket form. What else can I help with?")
	if err := s.sessions.Save(ctx, conv); err != nil {
		return nil, apperrors.NewUnavailable("could not save conversation", err)
	}
	return conv, nil
}

// EndSession discards the user's transcript and state.
func (s *ConversationService) EndSession(ctx context.Context, user *domain.User) error {
	mu := s.lockFor(user.ID)
	mu.Lock()
	defer mu.Unlock()
	return s.sessions.Delete(ctx, user.ID)
}

func (s *ConversationService) loadOrStart(ctx context.Context, user *domain.User) (*domain.Conversation, error) {
	conv, err := s.sessions.Get(ctx, user.ID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, apperrors.NewUnavailable("could not load conversation", err)
	}

	conv = domain.NewConversation(user.ID)
	conv.Append(domain.SenderAssistant, assistant.Greeting)
	if err := s.sessions.Save(ctx, conv); err != nil {
		return nil, apperrors.NewUnavailable("could not save conversation", err)
	}
	return conv, nil
}

func (s *ConversationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// GenerateTicketID returns a collision-resistant ticket id: a fixed prefix
// over 48 bits of UUIDv4 randomness. A per-session counter is not enough
// here; ids must be unique across every requester and restart.
func GenerateTicketID() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

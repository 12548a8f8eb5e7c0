package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/repository"
)

type flakyTicketRepo struct {
	repository.TicketRepository
	fail bool
}

func (f *flakyTicketRepo) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	if f.fail {
		return errors.New("ticket store down")
	}
	return f.TicketRepository.Create(ctx, ticket)
}

type flakyNotificationRepo struct {
	repository.NotificationRepository
	fail bool
}

func (f *flakyNotificationRepo) Create(ctx context.Context, note *domain.UserNotification) error {
	if f.fail {
		return errors.New("notification store down")
	}
	return f.NotificationRepository.Create(ctx, note)
}

type testEnv struct {
	svc      *ConversationService
	sessions repository.SessionStore
	tickets  *flakyTicketRepo
	notes    *flakyNotificationRepo
	user     *domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		sessions: repository.NewMemorySessionStore(),
		tickets:  &flakyTicketRepo{TicketRepository: repository.NewMemoryTicketRepository()},
		notes:    &flakyNotificationRepo{NotificationRepository: repository.NewMemoryNotificationRepository()},
		user: &domain.User{
			ID:    "user-1",
			Name:  "Dana Okafor",
			Email: "dana@example.com",
			Role:  domain.UserRoleStudent,
		},
	}
	env.svc = NewConversationService(ConversationDependencies{
		Sessions:      env.sessions,
		Tickets:       env.tickets,
		Notifications: env.notes,
	})
	return env
}

func (e *testEnv) ticketCount(t *testing.T) int {
	t.Helper()
	tickets, err := e.tickets.ListWithFilter(context.Background(), repository.TicketFilter{Limit: 100000})
	require.NoError(t, err)
	return len(tickets)
}

func (e *testEnv) notificationCount(t *testing.T) int {
	t.Helper()
	notes, err := e.notes.ListByUser(context.Background(), e.user.ID, 100000, 0)
	require.NoError(t, err)
	return len(notes)
}

func (e *testEnv) enterEscalation(t *testing.T) {
	t.Helper()
	conv, _, err := e.svc.HandleMessage(context.Background(), e.user, "I have a problem")
	require.NoError(t, err)
	require.Equal(t, domain.ModeEscalating, conv.Mode)
}

func TestHandleMessageAppendsUserThenReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	conv, reply, err := env.svc.HandleMessage(ctx, env.user, "where are the jobs?")
	require.NoError(t, err)

	// greeting, user message, reply - in that order, monotonic ids.
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, domain.SenderAssistant, conv.Messages[0].Sender)
	assert.Equal(t, domain.SenderUser, conv.Messages[1].Sender)
	assert.Equal(t, "where are the jobs?", conv.Messages[1].Text)
	assert.Equal(t, domain.SenderAssistant, conv.Messages[2].Sender)
	assert.Equal(t, reply, conv.Messages[2])
	for i, msg := range conv.Messages {
		assert.Equal(t, i+1, msg.ID)
	}
	assert.Equal(t, domain.ModeChatting, conv.Mode)
}

func TestHandleMessageRejectsEmptyInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.HandleMessage(ctx, env.user, "   ")
	require.Error(t, err)

	// No session was created for the rejected input.
	_, err = env.sessions.Get(ctx, env.user.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestEscalationIntentSwitchesMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	conv, reply, err := env.svc.HandleMessage(ctx, env.user, "please escalate this to an admin")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEscalating, conv.Mode)
	assert.Contains(t, reply.Text, "subject")
	assert.Zero(t, env.ticketCount(t), "entering escalation must not create a ticket")
}

func TestChatInputBlockedWhileEscalating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	before, err := env.sessions.Get(ctx, env.user.ID)
	require.NoError(t, err)

	_, _, err = env.svc.HandleMessage(ctx, env.user, "actually, about my cv")
	require.Error(t, err)

	after, err := env.sessions.Get(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, len(before.Messages), len(after.Messages), "rejected input must not be appended")
	assert.Equal(t, domain.ModeEscalating, after.Mode)
}

func TestSubmitEscalationSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	ticket, conv, err := env.svc.SubmitEscalation(ctx, env.user, "Login broken", "Cannot access portal")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.ID, "TCK-"))
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.False(t, ticket.Escalated)
	assert.Empty(t, ticket.Resolution)
	assert.Equal(t, "Login broken", ticket.Subject)
	assert.Equal(t, "Cannot access portal", ticket.Description)
	assert.Equal(t, env.user.Name, ticket.User)
	assert.Equal(t, env.user.Role, ticket.Role)

	assert.Equal(t, 1, env.ticketCount(t))

	notes, err := env.notes.ListByUser(ctx, env.user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationTicketCreated, notes[0].Type)
	assert.Contains(t, notes[0].Message, ticket.ID)
	assert.False(t, notes[0].Read)

	assert.Equal(t, domain.ModeChatting, conv.Mode)
	assert.Empty(t, conv.DraftSubject)
	assert.Empty(t, conv.DraftDescription)
	assert.Empty(t, conv.PendingTicketID)

	last := conv.Messages[len(conv.Messages)-1]
	assert.Equal(t, domain.SenderAssistant, last.Sender)
	assert.Contains(t, last.Text, ticket.ID)
}

func TestSubmitEscalationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	_, _, err := env.svc.SubmitEscalation(ctx, env.user, "", "Issue details")
	require.Error(t, err)

	conv, err := env.sessions.Get(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEscalating, conv.Mode)
	assert.Zero(t, env.ticketCount(t))
	assert.Zero(t, env.notificationCount(t))
}

func TestSubmitEscalationOutsideEscalation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.SubmitEscalation(ctx, env.user, "subject", "description")
	require.Error(t, err)
	assert.Zero(t, env.ticketCount(t))
}

func TestTicketStoreFailureKeepsDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	env.tickets.fail = true
	_, _, err := env.svc.SubmitEscalation(ctx, env.user, "Login broken", "Cannot access portal")
	require.Error(t, err)

	conv, err := env.sessions.Get(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEscalating, conv.Mode)
	assert.Equal(t, "Login broken", conv.DraftSubject)
	assert.Equal(t, "Cannot access portal", conv.DraftDescription)
	assert.Zero(t, env.ticketCount(t))

	// The store recovers; resubmitting the preserved drafts succeeds.
	env.tickets.fail = false
	ticket, conv, err := env.svc.SubmitEscalation(ctx, env.user, conv.DraftSubject, conv.DraftDescription)
	require.NoError(t, err)
	assert.Equal(t, 1, env.ticketCount(t))
	assert.Equal(t, domain.ModeChatting, conv.Mode)
	assert.Equal(t, "Login broken", ticket.Subject)
}

func TestNotificationFailureDoesNotDuplicateTicket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	env.notes.fail = true
	_, _, err := env.svc.SubmitEscalation(ctx, env.user, "Login broken", "Cannot access portal")
	require.Error(t, err)

	conv, err := env.sessions.Get(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeEscalating, conv.Mode)
	assert.Equal(t, 1, env.ticketCount(t), "ticket was filed before the notification failure")
	require.NotEmpty(t, conv.PendingTicketID)

	// Retry reuses the parked ticket instead of filing a second one.
	env.notes.fail = false
	ticket, conv, err := env.svc.SubmitEscalation(ctx, env.user, "Login broken", "Cannot access portal")
	require.NoError(t, err)
	assert.Equal(t, conv.Mode, domain.ModeChatting)
	assert.Equal(t, 1, env.ticketCount(t))
	assert.Equal(t, 1, env.notificationCount(t))
	assert.True(t, strings.HasPrefix(ticket.ID, "TCK-"))
}

func TestCancelEscalationClearsDrafts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.enterEscalation(t)

	// A failed validation pass leaves no drafts, but a failed submit does;
	// simulate the latter before cancelling.
	env.tickets.fail = true
	_, _, _ = env.svc.SubmitEscalation(ctx, env.user, "Half-done", "Subject I typed")
	env.tickets.fail = false

	conv, err := env.svc.CancelEscalation(ctx, env.user)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeChatting, conv.Mode)
	assert.Empty(t, conv.DraftSubject)
	assert.Empty(t, conv.DraftDescription)
	assert.Zero(t, env.ticketCount(t))

	// And normal chat works again.
	_, reply, err := env.svc.HandleMessage(ctx, env.user, "tell me about interviews")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Text)
}

func TestCancelOutsideEscalationFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CancelEscalation(context.Background(), env.user)
	require.Error(t, err)
}

func TestEndSessionDiscardsTranscript(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.HandleMessage(ctx, env.user, "hello jobs")
	require.NoError(t, err)
	require.NoError(t, env.svc.EndSession(ctx, env.user))

	_, err = env.sessions.Get(ctx, env.user.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// A fresh session starts with just the greeting.
	conv, err := env.svc.Transcript(ctx, env.user)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, domain.SenderAssistant, conv.Messages[0].Sender)
}

func TestGenerateTicketIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := GenerateTicketID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate ticket id %s after %d generations", id, i)
		seen[id] = struct{}{}
	}
}

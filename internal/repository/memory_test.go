package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/assistant-service/internal/domain"
)

func TestTicketPersistedFormRoundTrip(t *testing.T) {
	ticket := domain.SupportTicket{
		ID:          "TCK-0123456789AB",
		RequesterID: "user-1",
		User:        "Dana Okafor",
		Role:        domain.UserRoleStudent,
		Subject:     "Login broken",
		Description: "Cannot access portal",
		Status:      domain.TicketStatusOpen,
		CreatedAt:   time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC),
		Escalated:   false,
		Resolution:  "",
	}

	raw, err := json.Marshal(ticket)
	require.NoError(t, err)

	var decoded domain.SupportTicket
	require.NoError(t, json.Unmarshal(raw, &decoded))
	// RequesterID is internal and not part of the persisted wire shape.
	decoded.RequesterID = ticket.RequesterID
	assert.Equal(t, ticket, decoded)

	// The external contract uses these exact field names.
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "user", "role", "subject", "description", "status", "createdAt", "escalated", "resolution"} {
		assert.Contains(t, fields, key)
	}
}

func TestMemoryTicketRepositoryListByRequester(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	for i, requester := range []string{"user-1", "user-1", "user-2"} {
		ticket := &domain.SupportTicket{
			ID:          "TCK-TEST" + string(rune('A'+i)),
			RequesterID: requester,
			User:        "someone",
			Role:        domain.UserRoleStudent,
			Subject:     "subject",
			Description: "description",
			Status:      domain.TicketStatusOpen,
			CreatedAt:   time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, ticket))
	}

	mine, err := repo.ListByRequester(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := repo.ListByRequester(ctx, "user-2", 10, 0)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestMemoryNotificationRepositoryPerUserLists(t *testing.T) {
	repo := NewMemoryNotificationRepository()
	ctx := context.Background()

	first := &domain.UserNotification{
		ID:      "note-1",
		UserID:  "user-1",
		Type:    domain.NotificationTicketCreated,
		Title:   "Support ticket created",
		Message: "Your support ticket TCK-AAA has been created.",
		Date:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, &domain.UserNotification{
		ID: "note-2", UserID: "user-2", Type: domain.NotificationTicketCreated, Date: time.Now(),
	}))

	mine, err := repo.ListByUser(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].Read)

	// MarkRead is scoped to the owner.
	require.Error(t, repo.MarkRead(ctx, "user-2", "note-1"))
	require.NoError(t, repo.MarkRead(ctx, "user-1", "note-1"))

	mine, err = repo.ListByUser(ctx, "user-1", 10, 0)
	require.NoError(t, err)
	assert.True(t, mine[0].Read)
}

func TestMemorySessionStoreIsolation(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	conv := domain.NewConversation("user-1")
	conv.Append(domain.SenderAssistant, "hello")
	require.NoError(t, store.Save(ctx, conv))

	// Mutating the caller's copy after Save must not leak into the store.
	conv.Append(domain.SenderUser, "not saved")

	loaded, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)

	require.NoError(t, store.Delete(ctx, "user-1"))
	_, err = store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

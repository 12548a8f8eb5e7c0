package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/repository"
)

func seedTicket(t *testing.T, repo repository.TicketRepository, requesterID string) *domain.SupportTicket {
	t.Helper()
	ticket := &domain.SupportTicket{
		ID:          GenerateTicketID(),
		RequesterID: requesterID,
		User:        "Dana Okafor",
		Role:        domain.UserRoleStudent,
		Subject:     "Login broken",
		Description: "Cannot access portal",
		Status:      domain.TicketStatusOpen,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	return ticket
}

func TestGetForRequesterEnforcesOwnership(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewTicketService(repo, nil)
	ticket := seedTicket(t, repo, "user-1")

	got, err := svc.GetForRequester(context.Background(), "user-1", ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, got.ID)

	_, err = svc.GetForRequester(context.Background(), "user-2", ticket.ID)
	require.Error(t, err)
}

func TestAdminUpdateStatusTransitions(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewTicketService(repo, nil)
	ticket := seedTicket(t, repo, "user-1")
	ctx := context.Background()

	inProgress := domain.TicketStatusInProgress
	updated, err := svc.AdminUpdate(ctx, ticket.ID, AdminUpdateInput{Status: &inProgress})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	resolved := domain.TicketStatusResolved
	resolution := "Password reset issued"
	updated, err = svc.AdminUpdate(ctx, ticket.ID, AdminUpdateInput{Status: &resolved, Resolution: &resolution})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, "Password reset issued", updated.Resolution)

	// Resolved is terminal.
	open := domain.TicketStatusOpen
	_, err = svc.AdminUpdate(ctx, ticket.ID, AdminUpdateInput{Status: &open})
	require.Error(t, err)
}

func TestAdminUpdateEscalatedFlag(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewTicketService(repo, nil)
	ticket := seedTicket(t, repo, "user-1")

	escalated := true
	updated, err := svc.AdminUpdate(context.Background(), ticket.ID, AdminUpdateInput{Escalated: &escalated})
	require.NoError(t, err)
	assert.True(t, updated.Escalated)
	assert.Equal(t, domain.TicketStatusOpen, updated.Status)
}

func TestAdminListFiltersByStatus(t *testing.T) {
	repo := repository.NewMemoryTicketRepository()
	svc := NewTicketService(repo, nil)
	ctx := context.Background()

	seedTicket(t, repo, "user-1")
	other := seedTicket(t, repo, "user-2")
	inProgress := domain.TicketStatusInProgress
	_, err := svc.AdminUpdate(ctx, other.ID, AdminUpdateInput{Status: &inProgress})
	require.NoError(t, err)

	open, err := svc.AdminList(ctx, []domain.TicketStatus{domain.TicketStatusOpen}, 10, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.TicketStatusOpen, open[0].Status)

	all, err := svc.AdminList(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/events"
	"github.com/spec-kit/assistant-service/internal/repository"
	apperrors "github.com/spec-kit/assistant-service/pkg/util/errorutil"
)

// TicketService serves the ticket views: requesters see their own tickets,
// admins manage all of them. Ticket creation happens only through the
// conversation service.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// ListForRequester returns the caller's tickets, newest first.
func (s *TicketService) ListForRequester(ctx context.Context, userID string, limit, offset int) ([]domain.SupportTicket, error) {
	return s.tickets.ListByRequester(ctx, userID, limit, offset)
}

// GetForRequester fetches one ticket, enforcing ownership.
func (s *TicketService) GetForRequester(ctx context.Context, userID, ticketID string) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.RequesterID != userID {
		return nil, apperrors.NewForbidden("not your ticket")
	}
	return ticket, nil
}

// AdminList returns tickets across all requesters, optionally filtered by status.
func (s *TicketService) AdminList(ctx context.Context, statuses []domain.TicketStatus, limit, offset int) ([]domain.SupportTicket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
}

// AdminUpdateInput describes a ticket-management change.
type AdminUpdateInput struct {
	Status     *domain.TicketStatus
	Resolution *string
	Escalated  *bool
}

// AdminUpdate applies a status/resolution change on behalf of the admin view.
func (s *TicketService) AdminUpdate(ctx context.Context, ticketID string, input AdminUpdateInput) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if input.Status != nil && *input.Status != ticket.Status {
		if !isValidTransition(ticket.Status, *input.Status) {
			return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
				"from": ticket.Status,
				"to":   *input.Status,
			})
		}
		ticket.Status = *input.Status
	}
	if input.Resolution != nil {
		ticket.Resolution = strings.TrimSpace(*input.Resolution)
	}
	if input.Escalated != nil {
		ticket.Escalated = *input.Escalated
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if s.dispatcher != nil && ticket.Status != oldStatus {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketUpdated,
			UserID:    ticket.RequesterID,
			Timestamp: time.Now(),
			Payload: events.TicketUpdatedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusInProgress: {domain.TicketStatusResolved, domain.TicketStatusOpen},
	domain.TicketStatusResolved:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

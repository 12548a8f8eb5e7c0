package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-service/internal/api/dto"
	"github.com/spec-kit/assistant-service/internal/auth"
	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/service"
	apperrors "github.com/spec-kit/assistant-service/pkg/util/errorutil"
)

// TicketsHandler serves requester-facing and admin ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	tickets, err := h.service.ListForRequester(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.GetForRequester(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AdminListTickets GET /admin/tickets.
func (h *TicketsHandler) AdminListTickets(c *fiber.Ctx) error {
	var statuses []domain.TicketStatus
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			statuses = append(statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	limit, offset := parsePagination(c)
	tickets, err := h.service.AdminList(c.UserContext(), statuses, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// AdminUpdateTicket PATCH /admin/tickets/:id.
func (h *TicketsHandler) AdminUpdateTicket(c *fiber.Ctx) error {
	var req dto.AdminTicketUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == nil && req.Resolution == nil && req.Escalated == nil {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	ticket, err := h.service.AdminUpdate(c.UserContext(), c.Params("id"), service.AdminUpdateInput{
		Status:     req.Status,
		Resolution: req.Resolution,
		Escalated:  req.Escalated,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponses(tickets []domain.SupportTicket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func ticketResponse(ticket *domain.SupportTicket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		User:        ticket.User,
		Role:        ticket.Role,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		Escalated:   ticket.Escalated,
		Resolution:  ticket.Resolution,
	}
}

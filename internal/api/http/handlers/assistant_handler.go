package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-service/internal/api/dto"
	"github.com/spec-kit/assistant-service/internal/auth"
	"github.com/spec-kit/assistant-service/internal/domain"
	"github.com/spec-kit/assistant-service/internal/service"
	apperrors "github.com/spec-kit/assistant-service/pkg/util/errorutil"
)

// AssistantHandler exposes the conversational assistant.
type AssistantHandler struct {
	conversations *service.ConversationService
}

// NewAssistantHandler constructs handler.
func NewAssistantHandler(conversations *service.ConversationService) *AssistantHandler {
	return &AssistantHandler{conversations: conversations}
}

// GetSession GET /assistant/session.
func (h *AssistantHandler) GetSession(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	conv, err := h.conversations.Transcript(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": conversationResponse(conv)})
}

// PostMessage POST /assistant/messages.
func (h *AssistantHandler) PostMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	conv, reply, err := h.conversations.HandleMessage(c.UserContext(), principal.User, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ChatTurnResponse{
		Reply: chatMessageResponse(reply),
		Mode:  conv.Mode,
	}})
}

// SubmitEscalation POST /assistant/escalation.
func (h *AssistantHandler) SubmitEscalation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.EscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, conv, err := h.conversations.SubmitEscalation(c.UserContext(), principal.User, req.Subject, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"ticket":       ticketResponse(ticket),
		"conversation": conversationResponse(conv),
	}})
}

// CancelEscalation DELETE /assistant/escalation.
func (h *AssistantHandler) CancelEscalation(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	conv, err := h.conversations.CancelEscalation(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": conversationResponse(conv)})
}

// EndSession DELETE /assistant/session.
func (h *AssistantHandler) EndSession(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.conversations.EndSession(c.UserContext(), principal.User); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func conversationResponse(conv *domain.Conversation) dto.ConversationResponse {
	msgs := make([]dto.ChatMessageResponse, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		msgs = append(msgs, chatMessageResponse(msg))
	}
	return dto.ConversationResponse{
		Mode:             conv.Mode,
		DraftSubject:     conv.DraftSubject,
		DraftDescription: conv.DraftDescription,
		Messages:         msgs,
	}
}

func chatMessageResponse(msg domain.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        msg.ID,
		Text:      msg.Text,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	}
}

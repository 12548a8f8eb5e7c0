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

// NotificationsHandler serves the per-user notification list.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// ListNotifications GET /notifications.
func (h *NotificationsHandler) ListNotifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	notes, err := h.service.ListForUser(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notes))
	for _, note := range notes {
		items = append(items, notificationResponse(note))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.MarkRead(c.UserContext(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func notificationResponse(note domain.UserNotification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:      note.ID,
		Type:    note.Type,
		Title:   note.Title,
		Message: note.Message,
		Date:    note.Date,
		Read:    note.Read,
	}
}

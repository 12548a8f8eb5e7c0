package dto

import (
	"time"

	"github.com/spec-kit/assistant-service/internal/domain"
)

// TicketResponse is the persisted ticket shape consumed by the portal's
// ticket views. Field names are part of the external contract.
type TicketResponse struct {
	ID          string              `json:"id"`
	User        string              `json:"user"`
	Role        domain.UserRole     `json:"role"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	Escalated   bool                `json:"escalated"`
	Resolution  string              `json:"resolution"`
}

// AdminTicketUpdateRequest payload for the admin ticket view.
type AdminTicketUpdateRequest struct {
	Status     *domain.TicketStatus `json:"status"`
	Resolution *string              `json:"resolution"`
	Escalated  *bool                `json:"escalated"`
}

// NotificationResponse is the shape consumed by the notifications view.
type NotificationResponse struct {
	ID      string                  `json:"id"`
	Type    domain.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Date    time.Time               `json:"date"`
	Read    bool                    `json:"read"`
}

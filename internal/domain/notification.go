package domain

import "time"

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotificationTicketCreated NotificationType = "ticket_created"
)

// UserNotification is the record consumed by the portal's notifications
// view. UserID keys the per-user list and is not part of the wire shape.
type UserNotification struct {
	ID      string           `json:"id"`
	UserID  string           `json:"-"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
}

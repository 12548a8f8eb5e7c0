package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// SupportTicket is the record persisted when an assistant conversation is
// escalated. The JSON field names are consumed by the admin ticket view and
// must stay stable.
type SupportTicket struct {
	ID          string       `json:"id"`
	RequesterID string       `json:"-"`
	User        string       `json:"user"`
	Role        UserRole     `json:"role"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	Escalated   bool         `json:"escalated"`
	Resolution  string       `json:"resolution"`
}
